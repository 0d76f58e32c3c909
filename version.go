package turing

// Version is the release version of the turing engine and CLI.
const Version = "0.3.0"
