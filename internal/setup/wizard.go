// Package setup implements the interactive first-run configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)
)

type wizardConfig struct {
	BackendURL   string        `yaml:"backend_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	WALDir       string        `yaml:"wal_dir"`
	WebAddr      string        `yaml:"web_addr,omitempty"`
	LogPath      string        `yaml:"log_path"`
}

// RunWizard collects the client configuration interactively and writes it
// to the given path.
func RunWizard(path string) error {
	backendURL := "http://localhost:8000"
	pollIntervalStr := "30s"
	walDir := "./wal/recommendations"
	webAddr := ""
	logPath := "uvq.log"
	confirm := true

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("UVQ CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point the client at your analysis backend.\n"))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend base URL").
				Description("The UVQ analysis service, e.g. http://localhost:8000").
				Value(&backendURL),
			huh.NewInput().
				Title("Market poll interval").
				Description("How often to refresh market data (e.g. 30s)").
				Value(&pollIntervalStr),
			huh.NewInput().
				Title("Recommendation journal directory").
				Value(&walDir),
			huh.NewInput().
				Title("Web dashboard address").
				Description("Optional, e.g. :8080; leave empty to disable").
				Value(&webAddr),
			huh.NewInput().
				Title("Log file").
				Value(&logPath),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write configuration to %s?", path)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	pollInterval, err := time.ParseDuration(pollIntervalStr)
	if err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", pollIntervalStr, err)
	}

	cfg := wizardConfig{
		BackendURL:   backendURL,
		PollInterval: pollInterval,
		WALDir:       walDir,
		WebAddr:      webAddr,
		LogPath:      logPath,
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s. Start the client with:\n\n  uvq --config %s\n", path, path)
	return nil
}
