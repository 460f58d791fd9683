package main

import (
	"os"

	notifyctlcmd "github.com/aricom-studios/notification-server/pkg/notifyctl/cmd"
)

func main() {
	root := notifyctlcmd.NewRootCommand(notifyctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
