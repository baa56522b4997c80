// Package common holds the typed configuration structs shared by the
// server and client commands, plus the component logger factory.
package common
