/*
Package ports defines the driven ports (interfaces) of the bridge.

These interfaces decouple the lifecycle core from external implementations, allowing
the supervisor, registry and executor to work with any WebDriver client library and
any persistence backend, and to be tested in isolation.

# Key Interfaces

  - Client: One live automation session exposed by the delegated engine.
  - Element: A UI element handle returned by a Client.
  - Dialer: Opens a new Client against a running driver.
  - RecordStore: Persists driver and session records (memory, file, redis).
  - DistributedLocker: Serialises driver launches across bridge instances sharing a backend.
*/
package ports
