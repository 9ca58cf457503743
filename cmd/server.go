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
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/wayfindhq/wayfind/api"
)

func initializeRouter(w *wayfindInstance) *gin.Engine {
	return api.NewAPI(w.wayfind).Router()
}

func serveCmd(w *wayfindInstance) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		router := initializeRouter(w)

		server := &http.Server{
			Addr:    ":" + w.cnf.Server.Port,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s\n", w.cnf.Server.Port)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
		log.Println("Server exiting")
	}
}

func serverCommands(w *wayfindInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start wayfind server",
		Run:   serveCmd(w),
	}
	return cmd
}
