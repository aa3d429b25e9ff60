package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tannguyen1129/fresh-sync-demo/app"
	"github.com/tannguyen1129/fresh-sync-demo/config"
	"github.com/tannguyen1129/fresh-sync-demo/core/orchestration"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
)

var (
	disruptType  string
	disruptZones []string
	disruptDesc  string
	disruptHours int
)

var disruptCmd = &cobra.Command{
	Use:   "disrupt",
	Short: "Inject a test disruption and run re-optimization",
	RunE:  disrupt,
}

func init() {
	disruptCmd.Flags().StringVar(&disruptType, "type", "CRANE_BREAKDOWN", "disruption type")
	disruptCmd.Flags().StringSliceVar(&disruptZones, "zones", []string{"ZONE_B"}, "affected yard zones")
	disruptCmd.Flags().StringVar(&disruptDesc, "desc", "Injected test disruption", "description")
	disruptCmd.Flags().IntVar(&disruptHours, "hours", 4, "duration in hours")
	rootCmd.AddCommand(disruptCmd)
}

func disrupt(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("disrupt-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	now := time.Now()
	d, err := svc.Engine.ReportDisruption(ctx, "cli", orchestration.DisruptionInput{
		Type:          strings.ToUpper(disruptType),
		Start:         now,
		End:           now.Add(time.Duration(disruptHours) * time.Hour),
		AffectedZones: disruptZones,
		Description:   disruptDesc,
	})
	if err != nil {
		return fmt.Errorf("report disruption: %w", err)
	}
	logg.Infof("disruption %s reported for zones %v", d.ID, d.AffectedZones)

	// Process synchronously so the command shows the result; the queued job
	// becomes a no-op thanks to per-booking claims.
	if err := svc.Engine.ProcessReoptimization(ctx, d.ID); err != nil {
		return fmt.Errorf("reoptimize: %w", err)
	}

	impacted, err := svc.Engine.ImpactedBookings(ctx)
	if err != nil {
		return err
	}
	for _, det := range impacted {
		logg.Infof("%s (%s): %s at %s", det.Booking.ID, det.ContainerNo,
			det.Booking.Status, det.Booking.SlotStart.Format(time.RFC3339))
	}
	return nil
}
