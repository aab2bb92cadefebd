// Package webdriver implements the engine ports on top of a W3C WebDriver
// endpoint such as tauri-driver.
//
// Most commands go through github.com/tebeka/selenium. Endpoints that library
// does not expose (window minimise and rect, new windows, element properties,
// input actions) are sent directly over the same session.
package webdriver
