/*
Package session tracks the automation sessions opened against the driver.

A Registry holds every session created during the life of the server and
designates at most one of them as current. Session-scoped commands only ever
address the current session; a new start displaces it but keeps the previous
session tracked so that shutdown can still quit it. Records are mirrored into
a ports.RecordStore on a best-effort basis.
*/
package session
