// Package cli provides the resqrypt command-line front end.
//
// It wires configuration, logging, password input, and the encrypt/decrypt
// pipelines behind two subcommands:
//
//	resqrypt encrypt -i <path> -o <path> [-p password] [-memory MiB]
//	                 [-iterations N] [-parallelism N] [-verbose]
//	resqrypt decrypt -i <path> -o <path> [-p password] [-verbose]
//
// The password is resolved from the -p flag, the RESQRYPT_PASSWORD
// environment variable, or an interactive no-echo prompt (with confirmation
// when encrypting). Empty passwords are rejected here, before reaching the
// pipelines.
package cli
