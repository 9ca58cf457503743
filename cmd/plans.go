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
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// plansCommands prints the tier catalog, useful for checking what a
// deployment will offer without hitting the HTTP surface.
func plansCommands(w *wayfindInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "print the tier catalog",
		Run: func(cmd *cobra.Command, args []string) {
			plans := w.wayfind.Catalog().Definitions()
			out, err := json.MarshalIndent(plans, "", "  ")
			if err != nil {
				log.Fatalf("could not render plans: %v", err)
			}
			fmt.Println(string(out))
		},
	}
	return cmd
}
