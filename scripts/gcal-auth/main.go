// Command gcal-auth runs the OAuth desktop flow once and stores the token
// the calendar client reads (google_calendar.token_path).
//
//	go run ./scripts/gcal-auth [credentials.json]
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	appconfig "timely-scheduler/config"
)

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	credsPath := cfg.GoogleCalendar.CredentialsPath
	if len(os.Args) > 1 {
		credsPath = os.Args[1]
	}
	if credsPath == "" {
		log.Fatal("No credentials: set google_calendar.credentials_path or pass the file as an argument")
	}

	oauthCfg, err := loadOAuthConfig(credsPath)
	if err != nil {
		log.Fatal(err)
	}

	tok, err := authorize(context.Background(), oauthCfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	if err := saveToken(cfg.GoogleCalendar.TokenPath, tok); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nToken saved to %s. Restart the API so it picks up the calendar.\n", cfg.GoogleCalendar.TokenPath)
}

func loadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials %q: %w", path, err)
	}
	c, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("%q is not an OAuth desktop-app credentials file: %w", path, err)
	}
	return c, nil
}

// authorize prints the consent URL and exchanges the pasted code.
func authorize(ctx context.Context, c *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	fmt.Fprintln(out, "1. Open this URL, sign in and allow calendar access:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, c.AuthCodeURL("timely", oauth2.AccessTypeOffline))
	fmt.Fprintln(out)
	fmt.Fprint(out, "2. Paste the authorization code: ")

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("no authorization code entered")
	}

	tok, err := c.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
