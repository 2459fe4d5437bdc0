package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ptarrant/phaseline/internal/cli"
	"github.com/ptarrant/phaseline/internal/db"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.phaseline/phaseline.db
	dbPath := os.Getenv("PHASELINE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".phaseline", "phaseline.db")
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	phaseRepo := repository.NewSQLitePhaseRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	personRepo := repository.NewSQLitePersonRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var phaseObservers []service.UseCaseObserver
	if os.Getenv("PHASELINE_LOG") != "" {
		phaseObservers = append(phaseObservers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo),
		Phases:      service.NewPhaseService(phaseRepo, depRepo, uow, phaseObservers...),
		Deps:        service.NewDependencyService(depRepo, phaseRepo),
		People:      service.NewPersonService(personRepo),
		Assignments: service.NewAssignmentService(assignmentRepo, personRepo, projectRepo),
		Plans:       service.NewPlanService(uow, projectRepo, phaseRepo, depRepo, personRepo, assignmentRepo),
		Reports:     service.NewReportService(phaseRepo, assignmentRepo, personRepo),
	}

	// Detect interactive terminal for the timeline TUI.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
