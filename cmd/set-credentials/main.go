// Command set-credentials creates or replaces the on-device account used by
// local login. The password is stored as a bcrypt hash. With -admin it only
// prints a hash for ADMIN_PASSWORD_HASH and writes nothing.
// Usage: go run ./cmd/set-credentials [-admin]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"lg/sweat-go-api/internal/appctx"
	"lg/sweat-go-api/internal/config"
	"lg/sweat-go-api/internal/store"
)

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func main() {
	adminOnly := flag.Bool("admin", false, "print a bcrypt hash for ADMIN_PASSWORD_HASH instead of saving an account")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	if *adminOnly {
		password := prompt(reader, "Admin password: ")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.StoreDriver == "memory" {
		fmt.Fprintln(os.Stderr, "STORE_DRIVER=memory does not persist; use file or postgres")
		os.Exit(1)
	}

	ctx := context.Background()
	var kv store.Store
	if cfg.StoreDriver == "postgres" {
		pool, err := store.NewPostgresPool(ctx, cfg.DBURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		kv = store.NewPostgresStore(pool)
	} else {
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open data dir: %v\n", err)
			os.Exit(1)
		}
		kv = fs
	}

	username := prompt(reader, "Username: ")
	fullName := prompt(reader, "Full name: ")
	password := prompt(reader, "Password: ")

	creds, err := appctx.New(kv, nil).CreateAccount(ctx, username, fullName, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAccount saved!\n")
	fmt.Printf("  Username: %s\n", creds.Username)
	fmt.Printf("  Store:    %s\n", cfg.StoreDriver)
}
