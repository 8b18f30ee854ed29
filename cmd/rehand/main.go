package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/rehand/internal/app"
	"github.com/ayusman/rehand/internal/server"
	"github.com/ayusman/rehand/internal/store"
	"github.com/ayusman/rehand/internal/tray"
)

func main() {
	gameName := flag.String("game", "balloon_pop", "exercise to run: balloon_pop, angle_master or maze_navigation")
	cameraID := flag.Int("camera", 0, "camera device ID")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	recalibrate := flag.Bool("recalibrate", false, "force a fresh calibration window")
	flag.Parse()

	fmt.Println("Rehand - Hand Rehabilitation Exercises")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".rehand")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "rehand.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:       st,
		ExporterDir: filepath.Join(dataDir, "exporters"),
		CameraID:    *cameraID,
		GameName:    *gameName,
		Recalibrate: *recalibrate,
	})
	if err := a.DiscoverExporters(); err != nil {
		log.Printf("Exporter discovery failed: %v", err)
	}

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Live:      a.Live(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	a.SetEnabled(true)
	defer a.Stop()

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if enabled {
			t.SetLastSession(a.LastSessionSummary())
		}
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + *addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Blocks until Quit is chosen from the menu
	t.Run()
}

// openBrowser opens url in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.rehand/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".rehand", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
