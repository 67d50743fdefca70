package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/taskvault/taskvault/internal/config"
	"github.com/taskvault/taskvault/internal/daemon"
	"github.com/taskvault/taskvault/pkg/clog"
)

var (
	app = kingpin.New("taskvault", "Bidirectional sync between a task store and markdown task documents")

	runCmd = app.Command("run", "Watch the vault and keep tasks and documents in sync")

	scanCmd = app.Command("scan", "Scan notes for tagged checklist items once and exit")

	syncCmd = app.Command("sync", "Sync every project's tasks and documents once and exit")

	listCmd     = app.Command("list", "List tasks")
	listAll     = listCmd.Flag("all", "Include parent tasks").Bool()
	listProject = listCmd.Flag("project", "Only tasks of this project").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env: %v\n", err)
		os.Exit(1)
	}
	setupLogger(env)

	d, err := daemon.New(env)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	switch command {
	case runCmd.FullCommand():
		if err := d.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("daemon error", "error", err)
			os.Exit(1)
		}
	case scanCmd.FullCommand():
		n, err := d.ScanOnce(ctx)
		if err != nil {
			slog.Error("scan failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("scanned notes, %d tagged tasks\n", n)
	case syncCmd.FullCommand():
		d.SyncOnce(ctx)
		fmt.Println("sync finished")
	case listCmd.FullCommand():
		listTasks(d)
	}
}

func setupLogger(env *config.Env) {
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))
}

func listTasks(d *daemon.Daemon) {
	tasks := d.Store().GetLeafTasks()
	if *listAll {
		tasks = d.Store().GetAll()
	}

	titleColor := color.New(color.Bold)
	doneColor := color.New(color.FgGreen)
	dueColor := color.New(color.FgYellow)

	for _, t := range tasks {
		projectName, _ := d.Settings().ProjectName(t.ProjectID)
		if *listProject != "" && projectName != *listProject {
			continue
		}
		mark := "[ ]"
		if t.Completed {
			mark = doneColor.Sprint("[x]")
		}
		line := fmt.Sprintf("%s %s", mark, titleColor.Sprint(t.Title))
		if t.Priority != "" {
			line += fmt.Sprintf("  (%s)", t.Priority)
		}
		if t.DueDate != "" {
			line += "  " + dueColor.Sprintf("due %s", t.DueDate)
		}
		if projectName != "" {
			line += fmt.Sprintf("  #%s", projectName)
		}
		fmt.Println(line)
	}
}
