// Command watch_uploads keeps the local upload directory and the resume
// records honest: it warns when a referenced file disappears or drifts in
// size, and flags files nothing references. It only observes; it never
// mutates resume rows or deletes files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"guestlist/models"
	"guestlist/pkg/dbconn"
)

var (
	verbose bool
	db      *gorm.DB
)

func main() {
	sweepEvery := flag.Duration("sweep", 10*time.Minute, "full reconcile interval")
	flag.BoolVar(&verbose, "verbose", false, "log matches as well as problems")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "guestlist.db"
	}
	var err error
	db, err = dbconn.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	base := os.Getenv("UPLOAD_BASE")
	if base == "" {
		base = "uploads"
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Fatalf("upload base %s: %v", base, err)
	}

	sweep(base)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(base); err != nil {
		log.Fatalf("watch %s: %v", base, err)
	}
	log.Printf("watching %s", base)

	ticker := time.NewTicker(*sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			handleEvent(base, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		case <-ticker.C:
			sweep(base)
		}
	}
}

func handleEvent(base string, ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if r, ok := resumeForFile(name); ok {
			log.Printf("WARNING: file %s removed but resume %d (%s) still references it", name, r.ID, r.FileName)
		} else if verbose {
			log.Printf("unreferenced file %s removed", name)
		}
	case ev.Op&fsnotify.Create != 0:
		if _, ok := resumeForFile(name); !ok {
			log.Printf("orphan file appeared: %s", name)
		} else if verbose {
			log.Printf("file %s arrived for an existing resume", name)
		}
	}
}

// resumeForFile matches a stored file name against resume fileUrl values
// (local uploads are recorded as /files/<stored name>).
func resumeForFile(name string) (*models.Resume, bool) {
	var r models.Resume
	if err := db.Where("file_url LIKE ?", "%/"+name).First(&r).Error; err != nil {
		return nil, false
	}
	return &r, true
}

// sweep reconciles every locally-stored resume against the directory.
func sweep(base string) {
	var resumes []models.Resume
	if err := db.Where("file_url LIKE ?", "/files/%").Find(&resumes).Error; err != nil {
		log.Printf("sweep query failed: %v", err)
		return
	}
	referenced := make(map[string]bool, len(resumes))
	for _, r := range resumes {
		stored := strings.TrimPrefix(r.FileURL, "/files/")
		referenced[stored] = true
		info, err := os.Stat(filepath.Join(base, stored))
		if err != nil {
			log.Printf("WARNING: resume %d (%s) references missing file %s", r.ID, r.FileName, stored)
			continue
		}
		if info.Size() != r.FileSize {
			log.Printf("WARNING: resume %d size drift: recorded %d, on disk %d", r.ID, r.FileSize, info.Size())
		} else if verbose {
			log.Printf("resume %d ok (%s)", r.ID, stored)
		}
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		log.Printf("sweep readdir failed: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || referenced[e.Name()] {
			continue
		}
		log.Printf("orphan file: %s", e.Name())
	}
}
