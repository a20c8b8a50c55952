// Package repl provides the interactive mode of the fitplan CLI.
//
// Each input line is split into arguments and handed to an Executor,
// which runs it as a regular fitplan command. Built-in lines:
//
//	exit, quit    leave the loop
//	history       print recent lines
//	PREFIX?       list commands starting with PREFIX
package repl
