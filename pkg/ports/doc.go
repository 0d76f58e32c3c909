/*
Package ports defines the driven ports (interfaces) of the turing engine.

These interfaces decouple hosts from storage backends, so the CLI, the HTTP
server and the MCP server can keep a library of named machines in files,
SQLite, Redis or memory.

# Key Interfaces

  - MachineStore: Responsible for persisting and loading named machines.
*/
package ports
