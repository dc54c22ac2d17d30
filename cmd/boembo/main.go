package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/caubebinhan/boembotiktok-sub000/internal/campaign"
	"github.com/caubebinhan/boembotiktok-sub000/internal/classify"
	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
	"github.com/caubebinhan/boembotiktok-sub000/internal/schedule"
	"github.com/caubebinhan/boembotiktok-sub000/internal/storage"
	"github.com/caubebinhan/boembotiktok-sub000/internal/watch"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "schedule":
		runSchedule(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "recover":
		runRecover(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("boembo %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`boembo - TikTok campaign scheduling engine

Usage:
  boembo schedule --campaign <file> [--out <file>] [--save] [--seed <n>]
  boembo status --jobs <file> [--json]
  boembo recover --campaign-name <name> [--out <file>] [--seed <n>]
  boembo watch --campaign <file> --out <file> [--log-level <level>] [--debounce-ms <n>]
  boembo version

Commands:
  schedule   Build and allocate a timeline from a campaign file
  status     Classify a jobs snapshot into pipeline states
  recover    Reschedule missed entries from the store, anchored at now
  watch      Watch a campaign file and recompute its timeline on change`)
}

func runSchedule(args []string) {
	campaignPath := "campaign.yaml"
	outPath := ""
	save := false
	var seed int64

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--campaign":
			campaignPath = flagValue(args, &i)
		case "--out":
			outPath = flagValue(args, &i)
		case "--save":
			save = true
		case "--seed":
			seed = parseSeed(flagValue(args, &i))
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", args[i])
			os.Exit(1)
		}
	}

	c, err := campaign.Load(campaignPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedule: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	plan, err := schedule.NewPlan(c.Videos, c.Sources, c.Schedule, c.Schedule.Anchor(now), newRNG(seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedule: %v\n", err)
		os.Exit(1)
	}

	if outPath != "" {
		if err := campaign.WriteTimeline(outPath, c.Name, plan, now); err != nil {
			fmt.Fprintf(os.Stderr, "schedule: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d items to %s\n", len(plan.Items), outPath)
	} else {
		printPlan(plan)
	}

	if save {
		repo, err := openRepository()
		if err != nil {
			fmt.Fprintf(os.Stderr, "schedule: %v\n", err)
			os.Exit(1)
		}
		if err := repo.SaveTimeline(c.Name, plan.Items); err != nil {
			fmt.Fprintf(os.Stderr, "schedule: save: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("saved %d items for campaign %q\n", len(plan.Items), c.Name)
	}
}

// jobsSnapshot is the input document for status classification: each entry
// pairs a video with its most recent download and publish jobs.
type jobsSnapshot struct {
	Videos []struct {
		Video       model.Video `yaml:"video"`
		DownloadJob *model.Job  `yaml:"download_job"`
		PublishJob  *model.Job  `yaml:"publish_job"`
	} `yaml:"videos"`
}

func runStatus(args []string) {
	jobsPath := "jobs.yaml"
	jsonOutput := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--jobs":
			jobsPath = flagValue(args, &i)
		case "--json":
			jsonOutput = true
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", args[i])
			os.Exit(1)
		}
	}

	content, err := os.ReadFile(jobsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status: %v\n", err)
		os.Exit(1)
	}
	var snapshot jobsSnapshot
	if err := yamlv3.Unmarshal(content, &snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "status: parse jobs snapshot: %v\n", err)
		os.Exit(1)
	}

	type entry struct {
		VideoID string               `json:"video_id"`
		Title   string               `json:"title"`
		Status  classify.VideoStatus `json:"status"`
	}
	entries := make([]entry, 0, len(snapshot.Videos))
	for _, v := range snapshot.Videos {
		entries = append(entries, entry{
			VideoID: v.Video.ID,
			Title:   v.Video.Title,
			Status:  classify.Classify(v.Video, v.DownloadJob, v.PublishJob),
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			fmt.Fprintf(os.Stderr, "status: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, e := range entries {
		line := fmt.Sprintf("%-20s %-18s %s", e.VideoID, e.Status.State, e.Status.Message)
		if e.Status.Progress > 0 {
			line += fmt.Sprintf(" (%d%%)", e.Status.Progress)
		}
		if e.Status.Action != classify.ActionNone {
			line += fmt.Sprintf(" [action: %s]", e.Status.Action)
		}
		fmt.Println(line)
	}
}

func runRecover(args []string) {
	name := ""
	outPath := ""
	var seed int64

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--campaign-name":
			name = flagValue(args, &i)
		case "--out":
			outPath = flagValue(args, &i)
		case "--seed":
			seed = parseSeed(flagValue(args, &i))
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", args[i])
			os.Exit(1)
		}
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: boembo recover --campaign-name <name> [--out <file>]")
		os.Exit(1)
	}

	repo, err := openRepository()
	if err != nil {
		fmt.Fprintf(os.Stderr, "recover: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	missed, err := repo.FetchMissed(name, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recover: %v\n", err)
		os.Exit(1)
	}
	if len(missed) == 0 {
		fmt.Println("nothing to recover")
		return
	}

	// Missed entries go through the same engine as a fresh campaign,
	// anchored at now.
	cfg := model.ScheduleConfig{
		IntervalMinutes: envInt("BOEMBO_INTERVAL_MINUTES", 15),
		ActiveHours: model.ActiveHours{
			Start: envInt("BOEMBO_ACTIVE_START", 0),
			End:   envInt("BOEMBO_ACTIVE_END", 1440),
		},
	}
	items, err := schedule.Allocate(schedule.BuildFromMissed(missed), now, cfg, newRNG(seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "recover: %v\n", err)
		os.Exit(1)
	}
	plan := schedule.Plan{Items: items, Anchor: now, Config: cfg}

	if err := repo.SaveTimeline(name, items); err != nil {
		fmt.Fprintf(os.Stderr, "recover: save: %v\n", err)
		os.Exit(1)
	}
	if outPath != "" {
		if err := campaign.WriteTimeline(outPath, name, plan, now); err != nil {
			fmt.Fprintf(os.Stderr, "recover: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("rescheduled %d missed items for campaign %q\n", len(items), name)
}

func runWatch(args []string) {
	campaignPath := "campaign.yaml"
	outPath := "timeline.yaml"
	logLevel := os.Getenv("BOEMBO_LOG_LEVEL")
	debounceMs := 0

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--campaign":
			campaignPath = flagValue(args, &i)
		case "--out":
			outPath = flagValue(args, &i)
		case "--log-level":
			logLevel = flagValue(args, &i)
		case "--debounce-ms":
			debounceMs = int(parseSeed(flagValue(args, &i)))
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", args[i])
			os.Exit(1)
		}
	}

	s := watch.New(watch.Options{
		CampaignPath: campaignPath,
		TimelinePath: outPath,
		LogLevel:     logLevel,
		DebounceMs:   debounceMs,
	})
	if err := s.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
}

func printPlan(p schedule.Plan) {
	for _, it := range p.Items {
		fmt.Printf("%s  %-4s  %s\n", model.FormatLocal(it.Time), it.Kind, it.Label)
	}
}

func openRepository() (storage.ScheduleRepository, error) {
	pg, err := storage.NewPostgres(storage.PostgresInfo{
		Host:     getParam("POSTGRES_HOST", "localhost"),
		Port:     getParam("POSTGRES_PORT", "5432"),
		User:     getParam("POSTGRES_USER", "boembo"),
		Password: getParam("POSTGRES_PASSWORD", "boembo"),
		Database: getParam("POSTGRES_DB", "boembo"),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return storage.NewPostgresScheduleRepository(pg), nil
}

func flagValue(args []string, i *int) string {
	if *i+1 >= len(args) {
		fmt.Fprintf(os.Stderr, "%s requires a value\n", args[*i])
		os.Exit(1)
	}
	*i++
	return args[*i]
}

func parseSeed(s string) int64 {
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		fmt.Fprintf(os.Stderr, "invalid number: %s\n", s)
		os.Exit(1)
	}
	return n
}

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

func envInt(key string, def int) int {
	if val, ok := os.LookupEnv(key); ok {
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
