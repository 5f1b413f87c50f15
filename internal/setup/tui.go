package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/TahenniRabah/amazon-notifier/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)
)

type yamlConfig struct {
	ProductID      string `yaml:"product_id"`
	BaseURL        string `yaml:"base_url"`
	Fetcher        string `yaml:"fetcher"`
	Headless       bool   `yaml:"headless"`
	LedgerPath     string `yaml:"ledger_path"`
	LogPath        string `yaml:"log_path"`
	NavTimeout     string `yaml:"nav_timeout"`
	SettleInterval string `yaml:"settle_interval"`
}

// RunWizard walks through the watcher settings interactively and writes
// them to config.yaml in the working directory.
func RunWizard() error {
	productID := config.DefaultProductID
	baseURL := config.DefaultBaseURL
	fetcherKind := config.FetcherChrome
	ledgerPath := config.DefaultLedgerPath
	logPath := config.DefaultLogPath
	navTimeoutStr := config.DefaultNavTimeout.String()
	headless := true
	confirm := false

	fmt.Println(headerStyle.Render("PRICE WATCHER SETUP"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Configure the product you want to track.\n"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Product identifier (ASIN)").
				Value(&productID).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("product identifier is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Retailer base URL").
				Value(&baseURL),
			huh.NewSelect[string]().
				Title("Page fetcher").
				Options(
					huh.NewOption("Headless browser (handles the anti-bot challenge)", config.FetcherChrome),
					huh.NewOption("Plain HTTP (no challenge handling)", config.FetcherHTTP),
				).
				Value(&fetcherKind),
			huh.NewConfirm().
				Title("Run the browser headless?").
				Value(&headless),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Price history file").
				Value(&ledgerPath),
			huh.NewInput().
				Title("Log file (empty disables file logging)").
				Value(&logPath),
			huh.NewInput().
				Title("Navigation timeout").
				Value(&navTimeoutStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewConfirm().
				Title("Write config.yaml?").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		fmt.Println("aborted, nothing written")
		return nil
	}

	out := yamlConfig{
		ProductID:      productID,
		BaseURL:        baseURL,
		Fetcher:        fetcherKind,
		Headless:       headless,
		LedgerPath:     ledgerPath,
		LogPath:        logPath,
		NavTimeout:     navTimeoutStr,
		SettleInterval: config.DefaultSettleInterval.String(),
	}

	raw, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile("config.yaml", raw, 0o644); err != nil {
		return err
	}

	fmt.Println("config.yaml written")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Remember to set PUSHOVER_TOKEN and PUSHOVER_USER (a .env file works)."))

	return nil
}
