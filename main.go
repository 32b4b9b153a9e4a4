package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/frvega/conversor-go/api"
	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/transfer"
	"github.com/frvega/conversor-go/views"
)

const usage = `usage: conversor [flags] <command> [files...]

commands:
  login                 log in (-useUser, -usePassword, -useRemember)
  logout                clear the stored session
  whoami                show the stored session
  convert <pdf...>      convert bank statement PDFs to Excel
  merge <xlsx...>       consolidate generated workbooks into one
  logs                  show the processing log (admin)
  serve                 run the conversion API server
`

func main() {
	cfg := tool.SetFlags()
	tool.InitLogger()
	tool.ApplyLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseAPIBase != "" {
		appCfg.APIBase = cfg.UseAPIBase
	}
	if cfg.UseOutputDir != "" {
		appCfg.OutputDir = cfg.UseOutputDir
	}
	if cfg.UseServePort > 0 {
		appCfg.Serve.Port = cfg.UseServePort
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, files := args[0], args[1:]

	if command == "serve" {
		server := api.NewServer(appCfg.Serve, nil)
		if err := server.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
		return
	}

	store := session.NewStore(appCfg.SessionFile)
	if err := store.Load(); err != nil {
		tool.DefaultLogger.Warnf("Ignoring unreadable session: %v", err)
	}
	client := transfer.New(
		appCfg.APIBase,
		time.Duration(appCfg.ConvertTimeoutSeconds)*time.Second,
		time.Duration(appCfg.MergeTimeoutSeconds)*time.Second,
	)
	view := views.TerminalView{}
	ctx := context.Background()

	// Commands that accept a one-shot, non-persisted login.
	if cfg.UseUser != "" && command != "login" && command != "logout" {
		login := &views.LoginController{View: view, Store: store, Client: client}
		if err := login.Run(ctx, cfg.UseUser, cfg.UsePassword, false); err != nil {
			os.Exit(1)
		}
	}

	switch command {
	case "login":
		ctrl := &views.LoginController{View: view, Store: store, Client: client}
		if err := ctrl.Run(ctx, cfg.UseUser, cfg.UsePassword, cfg.UseRemember); err != nil {
			os.Exit(1)
		}
	case "logout":
		if err := store.Clear(); err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		fmt.Println("Session cleared")
	case "whoami":
		if _, err := store.Require(); err != nil {
			fmt.Println("Not logged in")
			os.Exit(1)
		}
		fmt.Printf("Logged in with role %s\n", store.Role())
	case "convert":
		ctrl := &views.ConverterController{
			View:      view,
			Store:     store,
			Client:    client,
			APIBase:   appCfg.APIBase,
			OutputDir: appCfg.OutputDir,
		}
		if err := ctrl.Run(ctx, files); err != nil {
			os.Exit(1)
		}
	case "merge":
		ctrl := &views.MergeController{
			View:      view,
			Store:     store,
			Client:    client,
			OutputDir: appCfg.OutputDir,
		}
		if err := ctrl.Run(ctx, files); err != nil {
			os.Exit(1)
		}
	case "logs":
		ctrl := &views.AdminController{View: view, Store: store, Client: client}
		if err := ctrl.Run(ctx); err != nil {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
}
