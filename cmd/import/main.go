// Command import runs the one-shot seeding jobs against a WordPress
// WXR export: venue locations, organizers or calendar events. Each
// run prints a JSON report and publishes an import.completed message
// so downstream consumers see the batch land.
//
// Usage:
//
//	import -job locations  -file venues.xml
//	import -job organizers -file organizers.xml -region Northeast -division "New England" -city Boston
//	import -job events     -file events.xml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/jmfreeston/events-directory-api/internal/config"
	"github.com/jmfreeston/events-directory-api/internal/database"
	"github.com/jmfreeston/events-directory-api/internal/importer"
	"github.com/jmfreeston/events-directory-api/internal/queue"
	"github.com/jmfreeston/events-directory-api/internal/repository"
	queuepub "github.com/jmfreeston/events-directory-api/internal/service"
)

func main() {
	job := flag.String("job", "", "which import to run: locations, organizers or events")
	file := flag.String("file", "", "path to the WXR export file")
	region := flag.String("region", "Northeast", "home region name for imported organizers")
	division := flag.String("division", "New England", "home division name for imported organizers")
	city := flag.String("city", "Boston", "home city name for imported organizers")
	skipPublish := flag.Bool("no-publish", false, "skip the import.completed broker message")
	flag.Parse()

	if *job == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open export: %v", err)
	}
	defer f.Close()

	regionRepo := repository.NewRegionRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	organizerRepo := repository.NewOrganizerRepo(db)
	eventRepo := repository.NewEventRepo(db)

	ctx := context.Background()
	source := filepath.Base(*file)

	var report *importer.RunReport
	switch *job {
	case "locations":
		report, err = importer.ImportLocationsFromWXR(ctx, f, source, regionRepo, locationRepo)
	case "organizers":
		report, err = importer.ImportOrganizersFromWXR(ctx, f, source, regionRepo, organizerRepo, *region, *division, *city)
	case "events":
		report, err = importer.ImportEventsFromWXR(ctx, f, source, eventRepo, locationRepo, organizerRepo)
	default:
		log.Fatalf("unknown job %q (want locations, organizers or events)", *job)
	}
	if err != nil {
		log.Fatalf("%s: %v", *job, err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	os.Stdout.Write(append(out, '\n'))
	log.Print(report.Summary())

	if !*skipPublish {
		msg := queue.ActivityMessage{
			Kind: queue.KindImportCompleted,
			Import: &queue.ImportCompletedInfo{
				Job:      report.Job,
				Source:   report.Source,
				Scanned:  report.Scanned,
				Imported: report.Imported,
				Skipped:  report.Skipped,
				Failed:   report.Failed,
				Duration: report.Duration().String(),
			},
		}
		if err := queuepub.PublishActivity(ctx, msg); err != nil {
			log.Printf("publish import.completed: %v", err)
		}
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}
