package main

import (
	"context"
	"net"
	"net/http"
	"testing"

	"communityAPI/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedJob(name string) *jobs.Job {
	job := jobs.New(name)
	go func() {
		<-job.Canceled()
		job.Finish()
	}()
	return job
}

func TestRunServer(t *testing.T) {
	t.Run("Занятый порт возвращает ошибку", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()

		job := startedJob("sweep")
		server := &http.Server{Addr: busy.Addr().String(), Handler: http.NotFoundHandler()}

		err = runServer(context.Background(), server, jobs.Jobs{job})

		assert.Error(t, err)
		assert.Empty(t, jobs.Jobs{job}.ListUnfinished())
	})

	t.Run("Остановка по сигналу без ошибки", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := startedJob("notifier")
		server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

		err := runServer(ctx, server, jobs.Jobs{job})

		assert.NoError(t, err)
		assert.Empty(t, jobs.Jobs{job}.ListUnfinished())
	})
}
