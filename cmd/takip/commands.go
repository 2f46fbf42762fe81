package main

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ekoseoglu/takip/internal/config"
	"github.com/ekoseoglu/takip/internal/store"
)

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new job application",
	Long: `Record a new job application.

Examples:
  takip add --company "Getir" --position "Backend Engineer" --platform LinkedIn
  takip add --company "Trendyol" --date 2026-08-12 --cv v3 --tags "go,backend"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")
		position, _ := cmd.Flags().GetString("position")
		if company == "" || position == "" {
			return fmt.Errorf("--company and --position are required")
		}

		req := map[string]any{"company": company, "position": position}
		for flag, key := range map[string]string{
			"url":           "url",
			"location":      "location",
			"work-type":     "workType",
			"contract-type": "contractType",
			"platform":      "platform",
			"cv":            "cvVersion",
			"motivation":    "motivation",
			"notes":         "notes",
			"tags":          "tags",
			"status":        "status",
		} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				req[key] = v
			}
		}
		if date, _ := cmd.Flags().GetString("date"); date != "" {
			t, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
			req["appliedAt"] = t
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/applications", req)
		if err != nil {
			return err
		}

		var app store.Application
		if err := decodeJSON(resp, &app); err != nil {
			return err
		}

		printSuccess("Recorded application #%d: %s", app.No, app.Company)
		return nil
	},
}

func init() {
	addCmd.Flags().String("company", "", "company name (required)")
	addCmd.Flags().String("position", "", "position title (required)")
	addCmd.Flags().String("url", "", "job posting URL")
	addCmd.Flags().String("date", "", "application date (YYYY-MM-DD)")
	addCmd.Flags().String("location", "", "job location")
	addCmd.Flags().String("work-type", "", "work type (Remote, Hybrid, On-site)")
	addCmd.Flags().String("contract-type", "", "contract type (Full-time, Part-time, ...)")
	addCmd.Flags().String("platform", "", "application platform (LinkedIn, Kariyer.net, ...)")
	addCmd.Flags().String("cv", "", "CV version used")
	addCmd.Flags().String("motivation", "", "motivation letter text")
	addCmd.Flags().String("notes", "", "free-form notes")
	addCmd.Flags().String("tags", "", "comma-separated tags")
	addCmd.Flags().String("status", "", "initial status (default: In Process)")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		sortKey, _ := cmd.Flags().GetString("sort")
		asc, _ := cmd.Flags().GetBool("asc")

		params := url.Values{}
		if search != "" {
			params.Set("q", search)
		}
		if status != "" {
			params.Set("status", status)
		}
		if sortKey != "" {
			params.Set("sort", sortKey)
		}
		if asc {
			params.Set("dir", "asc")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/applications"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var apps []store.Application
		if err := decodeJSON(resp, &apps); err != nil {
			return err
		}

		if len(apps) == 0 {
			fmt.Println("No applications found.")
			return nil
		}

		for _, a := range apps {
			date := ""
			if !a.AppliedAt.IsZero() {
				date = a.AppliedAt.Format("2006-01-02")
			}
			fmt.Printf("%s  %-24s  %-28s  %-10s  %s\n",
				colorize(colorCyan, fmt.Sprintf("#%-3d", a.No)),
				truncate(a.Company, 24),
				truncate(a.Position, 28),
				date,
				colorize(colorBold, a.Status),
			)
		}
		fmt.Printf("\n%d application(s)\n", len(apps))
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	listCmd.Flags().String("search", "", "substring match over company and position")
	listCmd.Flags().String("status", "", "exact status filter")
	listCmd.Flags().String("sort", "", "sort key: date or companyName (default: date)")
	listCmd.Flags().Bool("asc", false, "sort ascending instead of descending")
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := map[string]any{}
		for flag, key := range map[string]string{
			"company":    "company",
			"position":   "position",
			"status":     "status",
			"platform":   "platform",
			"cv":         "cvVersion",
			"motivation": "motivation",
			"notes":      "notes",
			"tags":       "tags",
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				patch[key] = v
			}
		}
		if cmd.Flags().Changed("date") {
			date, _ := cmd.Flags().GetString("date")
			t, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
			patch["appliedAt"] = t
		}
		if len(patch) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.patch(cmd.Context(), "/applications/"+args[0], patch)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Updated %s", args[0])
		return nil
	},
}

func init() {
	updateCmd.Flags().String("company", "", "company name")
	updateCmd.Flags().String("position", "", "position title")
	updateCmd.Flags().String("status", "", "status label")
	updateCmd.Flags().String("platform", "", "application platform")
	updateCmd.Flags().String("cv", "", "CV version")
	updateCmd.Flags().String("date", "", "application date (YYYY-MM-DD)")
	updateCmd.Flags().String("motivation", "", "motivation letter text")
	updateCmd.Flags().String("notes", "", "free-form notes")
	updateCmd.Flags().String("tags", "", "comma-separated tags")
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/applications/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted %s", args[0])
		return nil
	},
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/stats")
		if err != nil {
			return err
		}

		var stats struct {
			Total         int `json:"total"`
			InterviewRate int `json:"interviewRate"`
			Monthly       []struct {
				Label string `json:"label"`
				Count int    `json:"count"`
			} `json:"monthly"`
			Statuses []struct {
				Status string `json:"status"`
				Count  int    `json:"count"`
			} `json:"statuses"`
			Funnel []struct {
				Name          string `json:"name"`
				Count         int    `json:"count"`
				Conversion    int    `json:"conversion"`
				HasConversion bool   `json:"hasConversion"`
			} `json:"funnel"`
			Motivation struct {
				WithRate    int `json:"withRate"`
				WithoutRate int `json:"withoutRate"`
				Lift        int `json:"lift"`
			} `json:"motivation"`
		}
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Applications", "%d", stats.Total)
		printStatus("Interview rate", "%d%%", stats.InterviewRate)

		fmt.Fprintln(os.Stderr)
		for _, m := range stats.Monthly {
			fmt.Fprintf(os.Stderr, "  %s %s %d\n", m.Label, colorize(colorCyan, strings.Repeat("▇", m.Count)), m.Count)
		}

		fmt.Fprintln(os.Stderr)
		for _, s := range stats.Funnel {
			line := fmt.Sprintf("%-20s %4d", s.Name, s.Count)
			if s.HasConversion {
				line += fmt.Sprintf("  (%d%%)", s.Conversion)
			}
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}

		fmt.Fprintln(os.Stderr)
		printStatus("With motivation", "%d%%", stats.Motivation.WithRate)
		printStatus("Without motivation", "%d%%", stats.Motivation.WithoutRate)
		printStatus("Lift", "%d%%", stats.Motivation.Lift)
		return nil
	},
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export <xlsx|pdf>",
	Short: "Export the application list to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if format != "xlsx" && format != "pdf" {
			return fmt.Errorf("unknown format %q (want xlsx or pdf)", format)
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = "takip." + format
		}
		lang, _ := cmd.Flags().GetString("lang")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/export/" + format
		if lang != "" {
			path += "?lang=" + url.QueryEscape(lang)
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		if _, err := f.ReadFrom(resp.Body); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		printSuccess("Exported to %s", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", "output file path (default: takip.<format>)")
	exportCmd.Flags().String("lang", "", "export language: tr or en")
}

// --- score ---

var scoreCmd = &cobra.Command{
	Use:   "score <resume.pdf>",
	Short: "Score a resume PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/score"
		if lang != "" {
			path += "?lang=" + url.QueryEscape(lang)
		}
		resp, err := client.post(cmd.Context(), path, map[string]string{
			"content": base64.StdEncoding.EncodeToString(data),
		})
		if err != nil {
			return err
		}

		var result struct {
			Total    int      `json:"total"`
			Keyword  int      `json:"keyword"`
			Section  int      `json:"section"`
			Length   int      `json:"length"`
			Contact  int      `json:"contact"`
			Words    int      `json:"words"`
			Tips     []string `json:"tips"`
			Sections []struct {
				Title string `json:"title"`
			} `json:"sections"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printStatus("Score", "%d / 100", result.Total)
		printStatus("Keywords", "%d", result.Keyword)
		printStatus("Sections", "%d", result.Section)
		printStatus("Length", "%d (%d words)", result.Length, result.Words)
		printStatus("Contact", "%d", result.Contact)
		if len(result.Sections) > 0 {
			titles := make([]string, 0, len(result.Sections))
			for _, s := range result.Sections {
				titles = append(titles, s.Title)
			}
			printStatus("Detected", "%s", strings.Join(titles, ", "))
		}
		for _, tip := range result.Tips {
			printWarning("%s", tip)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("lang", "", "tip language: tr or en")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the assistant about your applications",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		message := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/chat"
		if lang != "" {
			path += "?lang=" + url.QueryEscape(lang)
		}
		resp, err := client.post(cmd.Context(), path, map[string]any{
			"messages": []map[string]string{{"role": "user", "text": message}},
		})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result["reply"])
		return nil
	},
}

func init() {
	chatCmd.Flags().String("lang", "", "reply language: tr or en")
}

// --- lang ---

var langCmd = &cobra.Command{
	Use:   "lang [tr|en]",
	Short: "Show or change the interface language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code string
		if len(args) == 1 {
			code = strings.ToLower(args[0])
			if code != "tr" && code != "en" {
				return fmt.Errorf("unknown language %q (want tr or en)", args[0])
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		if code == "" {
			resp, err := client.get(cmd.Context(), "/settings/language")
			if err != nil {
				return err
			}
			var result map[string]string
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}
			printStatus("Language", "%s", result["language"])
			return nil
		}

		resp, err := client.put(cmd.Context(), "/settings/language", map[string]string{
			"language": code,
		})
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Language set to %s", result["language"])
		return nil
	},
}

// --- session ---

func readPassword(cmd *cobra.Command) (string, error) {
	if password, _ := cmd.Flags().GetString("password"); password != "" {
		return password, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		remember, _ := cmd.Flags().GetBool("remember")

		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/session/login", map[string]any{
			"email":    email,
			"password": password,
			"remember": remember,
		})
		if err != nil {
			return err
		}

		var session struct {
			User struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := decodeJSON(resp, &session); err != nil {
			return err
		}

		printSuccess("Signed in as %s", session.User.Email)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		name, _ := cmd.Flags().GetString("name")
		remember, _ := cmd.Flags().GetBool("remember")

		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/session/register", map[string]any{
			"email":    email,
			"password": password,
			"name":     name,
			"remember": remember,
		})
		if err != nil {
			return err
		}

		var session struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := decodeJSON(resp, &session); err != nil {
			return err
		}

		printSuccess("Account created for %s", session.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/session/logout", nil)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Signed out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email (required)")
	loginCmd.Flags().String("password", "", "account password (prompted if omitted)")
	loginCmd.Flags().Bool("remember", false, "remember this email for the next login")
	registerCmd.Flags().String("email", "", "account email (required)")
	registerCmd.Flags().String("password", "", "account password (prompted if omitted)")
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().Bool("remember", false, "remember this email for the next login")
}

// --- sync ---

var syncCmd = &cobra.Command{
	Use:   "sync <push|pull>",
	Short: "Sync records with the remote document store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := args[0]
		if direction != "push" && direction != "pull" {
			return fmt.Errorf("unknown direction %q (want push or pull)", direction)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/sync/"+direction, nil)
		if err != nil {
			return err
		}

		var result struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Sync %s complete: %d record(s)", direction, result.Count)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
