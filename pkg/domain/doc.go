/*
Package domain contains the core domain models shared by the bridge components.

It defines the values that flow between the MCP adapter, the command catalogue, the
session registry and the driver supervisor. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - LocatorSpec: A user-facing (strategy, value) pair identifying a UI element.
  - Locator: The engine-native form of a LocatorSpec, ready for a WebDriver "find" call.
  - Result: The uniform success/failure envelope returned by every command.
  - DriverRecord: The persisted ownership record of the spawned tauri-driver process.
  - SessionRecord: The persisted metadata of an automation session.
*/
package domain
