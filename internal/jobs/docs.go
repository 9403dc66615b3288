// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the service.
//
// # Available Jobs
//
// 1. OrderAssignmentJob - Runs every five seconds to retry assignment of
// pending orders. Orders that could not be assigned on creation (no eligible
// courier, geocoding outage) stay in the queue until a courier frees up.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(assignOrderHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The assignment job ignores the expected empty-queue outcome; everything
// else is logged and retried on the next tick.
package jobs
