/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/wayfindhq/wayfind"
)

// workerCommands starts the asynq consumer that delivers queued webhook
// events to the configured endpoint.
func workerCommands(w *wayfindInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start webhook delivery workers",
		Run: func(cmd *cobra.Command, args []string) {
			queueOptions := asynq.RedisClientOpt{Addr: w.cnf.Redis.Dns}
			srv := asynq.NewServer(queueOptions, asynq.Config{
				Concurrency: 10,
				Queues: map[string]int{
					wayfind.WEBHOOK_QUEUE: 1,
				},
			})

			mux := asynq.NewServeMux()
			mux.HandleFunc(wayfind.WEBHOOK_QUEUE, wayfind.ProcessWebhook)

			log.Println("Starting webhook workers")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run worker server: %v", err)
			}
		},
	}
	return cmd
}
