// Command tasks is the terminal client for the taskshare server.
//
// Configuration comes from ~/.taskshare.toml (api_url, email, token) with
// TASKSHARE_* environment overrides. "tasks login" exchanges credentials for
// a token to put in the config; "tasks" opens the interactive view.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"taskshare/internal/client"
)

func main() {
	configPath := flag.String("config", client.DefaultConfigPath(), "path to the client config file")
	email := flag.String("email", "", "email to act as (overrides config)")
	flag.Parse()

	cfg, err := client.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *email != "" {
		cfg.Email = *email
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewAPI(cfg)

	if flag.Arg(0) == "login" {
		if err := runLogin(ctx, api, cfg.Email); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if cfg.Email == "" {
		fmt.Fprintln(os.Stderr, "no email configured: set email in the config file or pass -email")
		os.Exit(1)
	}
	if err := client.RunUI(ctx, api, cfg.Email); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, api *client.API, email string) error {
	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}
	fmt.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	password := strings.TrimSpace(line)

	token, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Println("Add to your config file:")
	fmt.Printf("token = %q\n", token)
	return nil
}
