package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gjinn/config"
	"gjinn/core"
	"gjinn/generation"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/sirupsen/logrus"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4FACFE")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43E97B")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#43E97B")).
			Padding(0, 2)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5576C")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F5576C")).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8888AA"))
)

func main() {
	prompt := flag.String("generate", "", "The wish prompt to generate an image for.")
	style := flag.String("style", "", "Optional art style appended to the prompt.")
	output := flag.String("output", ".", "Directory to write the generated image to.")
	verbose := flag.Bool("verbose", false, "Enable debug logging.")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	banner := figure.NewFigure("gjinn", "", true)
	fmt.Println(bannerStyle.Render(banner.String()))
	fmt.Println(dimStyle.Render("wish granting, straight from your terminal"))
	fmt.Println()

	if *prompt == "" {
		fmt.Println(failureStyle.Render("A wish needs words. Try: gjinn -generate \"a castle in the clouds\""))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	seed := rand.Int63n(1_000_000)
	opts := core.GenerateOptions{
		Width:  cfg.ImageWidth,
		Height: cfg.ImageHeight,
		Seed:   seed,
		Model:  cfg.GeneratorModel,
		Style:  *style,
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		logrus.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("granting %q (seed %d)...", *prompt, seed)))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	gen := generation.NewPollinations(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey)
	data, result, err := gen.Download(ctx, *prompt, opts)
	if err == nil {
		name := filepath.Join(*output, fmt.Sprintf("gjinn-creation-%d.jpg", seed))
		if writeErr := os.WriteFile(name, data, 0o644); writeErr != nil {
			logrus.Fatalf("Failed to write image: %v", writeErr)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Wish granted!\n%s\n%s", name, result.URL)))
		return
	}

	logrus.WithError(err).Debug("Generation failed, rendering placeholder")
	fmt.Println(dimStyle.Render("the genie is unreachable, conjuring a placeholder..."))

	placeholder, renderErr := generation.RenderPlaceholder(opts.Width, opts.Height, []string{
		*prompt,
		err.Error(),
	})
	if renderErr != nil {
		fmt.Println(failureStyle.Render(fmt.Sprintf("Wish failed: %v", err)))
		os.Exit(1)
	}

	name := filepath.Join(*output, fmt.Sprintf("gjinn-placeholder-%d.png", seed))
	if writeErr := os.WriteFile(name, placeholder, 0o644); writeErr != nil {
		fmt.Println(failureStyle.Render(fmt.Sprintf("Wish failed: %v", err)))
		os.Exit(1)
	}
	fmt.Println(failureStyle.Render(fmt.Sprintf("Generation failed: %v\nPlaceholder saved to %s", err, name)))
}
