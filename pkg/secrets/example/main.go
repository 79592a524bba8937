package main

// This example seeds the credential store that ipmiq reads at startup.
// Server definitions in the config may omit their password; the loader
// then looks the credentials up in the store under the server's name.
// The master key is taken from the MASTER_KEY environment variable; use
// the generatekey command to create one. Each secret is encrypted with
// AES-GCM under a key derived (HKDF) from the master key and the server
// name, and the whole store lives in one JSON file.

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/davidallendj/ipmiq/pkg/secrets"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run main.go generatekey")
	fmt.Println("    - Generates a new 32-byte master key (in hex).")
	fmt.Println()
	fmt.Println("  Export MASTER_KEY=<your master key> to use the same key in the next commands.")
	fmt.Println()
	fmt.Println("  go run main.go store <serverName> <username> <password> [filename]")
	fmt.Println("    - Stores BMC credentials for the named server.")
	fmt.Println()
	fmt.Println("  go run main.go retrieve <serverName> [filename]")
	fmt.Println("    - Retrieves and prints the credentials for the named server.")
	fmt.Println()
	fmt.Println("  go run main.go list [filename]")
	fmt.Println("    - Lists the server names with stored credentials.")
	fmt.Println()
}

func openStore(filename string) (secrets.Store, error) {
	store, err := secrets.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open secrets store: %v", err)
	}
	return store, nil
}

func filenameArg(argIndex int) string {
	if len(os.Args) > argIndex {
		return os.Args[argIndex]
	}
	return "ipmiq-secrets.json"
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generatekey":
		key, err := secrets.GenerateMasterKey()
		if err != nil {
			fmt.Printf("Error generating master key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", key)

	case "store":
		if len(os.Args) < 5 {
			fmt.Println("Not enough arguments. Usage: go run main.go store <serverName> <username> <password> [filename]")
			os.Exit(1)
		}
		store, err := openStore(filenameArg(5))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		creds, err := json.Marshal(secrets.Credentials{Username: os.Args[3], Password: os.Args[4]})
		if err != nil {
			fmt.Printf("Error encoding credentials: %v\n", err)
			os.Exit(1)
		}
		if err := store.Put(os.Args[2], string(creds)); err != nil {
			fmt.Printf("Error storing credentials: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Credentials stored successfully.")

	case "retrieve":
		if len(os.Args) < 3 {
			fmt.Println("Not enough arguments. Usage: go run main.go retrieve <serverName> [filename]")
			os.Exit(1)
		}
		store, err := openStore(filenameArg(3))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		secret, err := store.Get(os.Args[2])
		if err != nil {
			fmt.Printf("Error retrieving credentials: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Credentials for %s: %s\n", os.Args[2], secret)

	case "list":
		store, err := openStore(filenameArg(2))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		ids, err := store.IDs()
		if err != nil {
			fmt.Printf("Error listing credentials: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Servers with stored credentials:")
		for _, id := range ids {
			fmt.Println(id)
		}

	default:
		usage()
	}
}
