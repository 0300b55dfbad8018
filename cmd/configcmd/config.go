// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"
	"strings"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/spf13/cobra"
)

var app *application.GCloud

// gcloud config
func NewCmd(injectedApp *application.GCloud) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change gcloud settings",
		Long: `Read and change the settings stored in the global config
(~/.gcloud/config.json) and the project config (.gcloudconfig.json,
searched upward from the current directory).

Keys:
` + keyList(),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func keyList() string {
	var b strings.Builder
	for _, key := range globalconfig.Keys() {
		b.WriteString("  " + key + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
