package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check local bridge reachability",
	Long: `Probe the optional local bridge and print its status. An unreachable
bridge means cloud-only mode; analysis still works either way.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c := newClient(cfg)
	st, err := c.BridgeInfo(cmd.Context())
	if err != nil {
		fmt.Printf("bridge: unreachable (%v)\n", err)
		fmt.Println("mode:   cloud-only")
		return nil
	}

	fmt.Printf("bridge:  %s\n", st.Status)
	fmt.Printf("engine:  %s %s\n", st.Engine, st.Version)
	if len(st.Capabilities) > 0 {
		fmt.Printf("caps:    %s\n", strings.Join(st.Capabilities, ", "))
	}
	if st.Status == "online" {
		fmt.Println("mode:    hybrid")
	} else {
		fmt.Println("mode:    cloud-only")
	}
	return nil
}
