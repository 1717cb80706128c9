package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "qr <code>",
		Short: "Fetch the join QR code for a room as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			png, err := NewClient(cfg.ServerURL).GetRaw("/api/rooms/"+code+"/qr", "image/png")
			if err != nil {
				return err
			}

			if outFile == "" {
				outFile = code + ".png"
			}
			if err := os.WriteFile(outFile, png, 0644); err != nil {
				return err
			}

			fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(png))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Output file (defaults to <code>.png)")

	return cmd
}
