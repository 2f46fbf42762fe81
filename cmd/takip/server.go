package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ekoseoglu/takip/internal/api"
	"github.com/ekoseoglu/takip/internal/chat"
	"github.com/ekoseoglu/takip/internal/config"
	"github.com/ekoseoglu/takip/internal/identity"
	"github.com/ekoseoglu/takip/internal/remote"
	"github.com/ekoseoglu/takip/internal/storage"
	"github.com/ekoseoglu/takip/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the takip server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running takip server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show takip system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "takip.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "takip version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(os.Getenv("TAKIP_LOG_LEVEL"), "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	apiToken, err := config.EnsureAPIToken(&cfg)
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	slog.Info("API bearer token available")

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("takip is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("takip is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	mirror := storage.NewMirror(db)
	initial, err := mirror.LoadState()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	st := store.New(mirror, initial)
	slog.Info("state loaded", "records", len(initial.Applications))

	deps := api.Deps{
		Store:    st,
		Settings: db,
		Token:    apiToken,
	}
	if cfg.Chat.APIKey != "" {
		cc := chat.NewClientWithBaseURL(cfg.Chat.APIKey, cfg.Chat.BaseURL)
		cc.SetModel(cfg.Chat.Model)
		deps.Chat = cc
	} else {
		slog.Info("chat disabled: no API key configured")
	}
	if cfg.Identity.APIKey != "" {
		deps.Identity = identity.NewClientWithBaseURL(cfg.Identity.APIKey, cfg.Identity.BaseURL)
	} else {
		slog.Info("accounts disabled: no API key configured")
	}
	if cfg.Remote.BaseURL != "" {
		deps.Remote = remote.NewClient(cfg.Remote.BaseURL, apiToken)
	} else {
		slog.Info("sync disabled: no remote base URL configured")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{Store: st})
	stdioSrv := server.NewStdioServer(mcpSrv)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "takip listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(gCtx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("takip is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop takip (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to takip (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			running = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if running {
		if apiToken, tokenErr := config.EnsureAPIToken(&cfg); tokenErr == nil {
			req, _ := http.NewRequest("GET", serverURL+"/applications", nil)
			req.Header.Set("Authorization", "Bearer "+apiToken)
			if appsResp, err := client.Do(req); err == nil {
				var apps []json.RawMessage
				if json.NewDecoder(appsResp.Body).Decode(&apps) == nil {
					printStatus("Applications", "%d", len(apps))
				}
				appsResp.Body.Close()
			}
		}
	}

	printStatus("Chat", "%s", onOff(cfg.Chat.APIKey != ""))
	printStatus("Accounts", "%s", onOff(cfg.Identity.APIKey != ""))
	printStatus("Sync", "%s", onOff(cfg.Remote.BaseURL != ""))
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "configured"
	}
	return "not configured"
}
