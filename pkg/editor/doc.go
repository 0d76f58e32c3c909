/*
Package editor edits stored machines in place.

Every edit loads the machine from a ports.MachineStore, applies one change
through the machine's own mutators and saves it back. Edits to the same name
are serialized within one process; separate processes sharing a store are
not coordinated.
*/
package editor
