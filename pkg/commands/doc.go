/*
Package commands is the catalogue of automation commands.

Each command is a Descriptor: a name, a description, a parameter schema and a
Handler. Handlers are thin delegations to the engine client of the current
session; the caller is responsible for resolving that session and for running
the handler under the executor's timeout and failure contract.
*/
package commands
