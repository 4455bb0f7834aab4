package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"helmetmonitor/internal/model"
	"helmetmonitor/internal/repository/sqlite"
	"helmetmonitor/internal/services/ai"
	"helmetmonitor/internal/services/storage"
)

// Initializes the database schema and re-imports orphaned snapshot files
// from the upload directory as events. Orphans happen when the file write
// succeeded but the row insert failed; the file timestamp becomes the event
// timestamp and the stub classifier re-derives the label.
func main() {
	dbPath := flag.String("db", filepath.Join("data", "helmet_monitor.db"), "Database path")
	uploadsDir := flag.String("uploads", "uploads", "Directory containing snapshot files")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	events := sqlite.NewEventRepository(db)

	refs, err := events.ImageRefs()
	if err != nil {
		log.Fatalf("Failed to list referenced images: %v", err)
	}
	referenced := make(map[string]bool, len(refs))
	for _, ref := range refs {
		referenced[ref] = true
	}

	files, err := os.ReadDir(*uploadsDir)
	if os.IsNotExist(err) {
		fmt.Println("No upload directory; schema initialized, nothing to import")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read upload directory: %v", err)
	}

	classifier := ai.NewStubClassifier()
	imported, skipped := 0, 0

	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasPrefix(name, "snapshot_") || referenced[name] {
			continue
		}

		timestamp, err := storage.ParseFilename(name)
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			skipped++
			continue
		}

		raw, err := os.ReadFile(filepath.Join(*uploadsDir, name))
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			skipped++
			continue
		}

		prediction := classifier.Predict(raw)
		if _, err := events.Insert(&model.Event{
			CreatedAt:  timestamp,
			Label:      prediction.Label,
			Confidence: prediction.Confidence,
			Site:       "Unknown",
			ImageRef:   name,
		}); err != nil {
			log.Printf("Failed to import %s: %v", name, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d orphaned snapshots", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d", skipped)
	}
	fmt.Println()
}
