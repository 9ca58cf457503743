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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wayfindhq/wayfind"
	"github.com/wayfindhq/wayfind/config"
	"github.com/wayfindhq/wayfind/internal/cache"
	"github.com/wayfindhq/wayfind/internal/notification"
	redis_db "github.com/wayfindhq/wayfind/internal/redis-db"
	"github.com/wayfindhq/wayfind/internal/store"
)

// Wayfind represents the CLI application, encapsulating the root Cobra command.
type Wayfind struct {
	cmd *cobra.Command
}

// wayfindInstance holds the decision core and its configuration for use by
// the subcommands.
type wayfindInstance struct {
	wayfind *wayfind.Wayfind
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func preRun(app *wayfindInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		core, err := setupWayfind(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.wayfind = core
		app.cnf = cnf

		return nil
	}
}

// setupWayfind wires the decision core: the Redis-backed dual session store,
// the plan cache, and the HTTP gateway to the onboarding backend.
func setupWayfind(cfg *config.Configuration) (*wayfind.Wayfind, error) {
	rds, err := redis_db.NewRedisClient(cfg.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %v", err)
	}

	sessions := store.NewDualStore(
		store.NewRedisStore(rds.Client()),
		store.NewLocalStore(),
	)
	planCache := cache.NewCache(rds.Client())
	gateway := wayfind.NewHTTPGateway(cfg.Gateway)

	notification.RegisterWebhookSender(func(event string, payload interface{}) error {
		return wayfind.SendWebhook(wayfind.NewWebhook{Event: event, Payload: payload})
	})

	return wayfind.NewWayfind(gateway, sessions, planCache), nil
}

// NewCLI creates the command-line interface for the Wayfind server.
func NewCLI() *Wayfind {
	var configFile string
	w := &wayfindInstance{}

	var rootCmd = &cobra.Command{
		Use:   "wayfind",
		Short: "SaaS onboarding decision core",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./wayfind.json", "Configuration file for wayfind")
	rootCmd.PersistentPreRunE = preRun(w, &configFile)

	rootCmd.AddCommand(serverCommands(w))
	rootCmd.AddCommand(workerCommands(w))
	rootCmd.AddCommand(plansCommands(w))

	return &Wayfind{cmd: rootCmd}
}

func (w Wayfind) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
