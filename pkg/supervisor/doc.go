/*
Package supervisor owns the tauri-driver subprocess.

The driver is spawned as the leader of its own process group so that the
WebDriver server and everything it launches (the application under test, a
native webview driver) can be signalled together. A Supervisor tracks at most
one live driver, probes its port for readiness instead of sleeping, and
persists a DriverRecord so that a later run can reap a driver left behind by a
crashed server.
*/
package supervisor
