package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tannguyen1129/fresh-sync-demo/config"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo fixtures into the store",
	RunE:  seed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seed loads a demo port: one vessel, 20 containers, a week of hourly gate
// windows with a 14:00-17:00 peak, five depots and a small driver pool.
// Container CONT-013 carries a delivery order on HOLD for walking through the
// commercial hold flow.
func seed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	logg := logger.New("seed")
	now := time.Now().Truncate(time.Hour)
	rng := rand.New(rand.NewSource(42))

	const (
		companyLogistics = "co-fastlogistics"
		companyShipping  = "co-one"
		companyOperator  = "co-freshport"
	)

	users := []model.User{
		{ID: "user-ops", CompanyID: companyOperator, Name: "Port Operator", Email: "ops@port.com"},
		{ID: "user-biz", CompanyID: companyLogistics, Name: "Logistics Coordinator", Email: "biz@logistics.com"},
		{ID: "user-one", CompanyID: companyShipping, Name: "ONE Line System", Email: "system@one-line.com"},
	}
	for _, u := range users {
		if err := st.UpsertUser(ctx, u); err != nil {
			return err
		}
	}

	drivers := []model.Driver{
		{ID: "drv-01", CompanyID: companyLogistics, Name: "Nguyen Van A", LicensePlate: "51C-123.45", Lat: 10.845, Lng: 106.810},
		{ID: "drv-02", CompanyID: companyLogistics, Name: "Tran Van B", LicensePlate: "51C-567.89", Lat: 10.780, Lng: 106.700},
		{ID: "drv-03", CompanyID: companyLogistics, Name: "Le Van C", LicensePlate: "29H-999.99", Lat: 10.762, Lng: 106.660},
	}
	for _, d := range drivers {
		if err := st.UpsertDriver(ctx, d); err != nil {
			return err
		}
	}

	depots := []model.Depot{
		{ID: "dep-a", Name: "Depot A (Tan Thuan)", Lat: 10.762622, Lng: 106.660172, Capacity: 500, CurrentLoad: 120, Status: model.DepotOpen},
		{ID: "dep-b", Name: "Depot B (Cat Lai)", Lat: 10.770000, Lng: 106.700000, Capacity: 1000, CurrentLoad: 800, Status: model.DepotOpen},
		{ID: "dep-c", Name: "Depot C (Hiep Phuoc)", Lat: 10.650000, Lng: 106.750000, Capacity: 600, CurrentLoad: 50, Status: model.DepotOpen},
		{ID: "dep-d", Name: "Depot D (ICD Thu Duc)", Lat: 10.850000, Lng: 106.780000, Capacity: 400, CurrentLoad: 390, Status: model.DepotClosed},
		{ID: "dep-e", Name: "Depot E (Phu Huu)", Lat: 10.780000, Lng: 106.800000, Capacity: 500, CurrentLoad: 200, Status: model.DepotOpen},
	}
	for _, d := range depots {
		if err := st.UpsertDepot(ctx, d); err != nil {
			return err
		}
	}

	yard := []model.YardStatus{
		{Zone: "ZONE_A", OccupancyPct: 45.5, UpdatedAt: now},
		{Zone: "ZONE_B", OccupancyPct: 88.0, UpdatedAt: now},
		{Zone: "ZONE_C", OccupancyPct: 12.0, UpdatedAt: now},
		{Zone: "ZONE_REEFER", OccupancyPct: 60.0, UpdatedAt: now},
	}
	for _, ys := range yard {
		if err := st.UpsertYardStatus(ctx, ys); err != nil {
			return err
		}
	}

	// A week of hourly gate windows. Afternoon peak runs nearly full.
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			start := now.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			peak := h >= 14 && h <= 17
			used := rng.Intn(50)
			if peak {
				used = 95
			}
			w := model.GateCapacity{
				ID:        uuid.NewString(),
				Start:     start,
				End:       start.Add(time.Hour),
				MaxSlots:  100,
				UsedSlots: used,
				PeakHour:  peak,
				Status:    model.GateOpen,
			}
			if err := st.CreateGateWindow(ctx, w); err != nil {
				return err
			}
		}
	}

	vessel := model.Vessel{
		ID:     "vsl-001",
		Code:   "VSL-001",
		Name:   "Ever Given",
		ETA:    now.Add(-24 * time.Hour),
		ETD:    now.Add(48 * time.Hour),
		Status: model.VesselBerthed,
	}
	if err := st.UpsertVessel(ctx, vessel); err != nil {
		return err
	}

	for i := 1; i <= 20; i++ {
		no := fmt.Sprintf("CONT-%03d", i)
		size := "20"
		if i%3 == 0 {
			size = "40"
		}
		zone := "ZONE_B"
		switch {
		case i%5 == 0:
			zone = "ZONE_REEFER"
		case i%2 == 0:
			zone = "ZONE_A"
		}
		c := model.Container{
			ID:       fmt.Sprintf("cont-%03d", i),
			No:       no,
			Size:     size,
			IsReefer: i%5 == 0,
			VesselID: vessel.ID,
			YardZone: zone,
			Status:   model.ContainerDischarged,
		}
		if err := st.UpsertContainer(ctx, c); err != nil {
			return err
		}

		doStatus := model.DOReleased
		if i == 13 {
			doStatus = model.DOHold
		}
		if _, err := st.UpsertDeliveryOrder(ctx, model.DeliveryOrder{
			ContainerID: c.ID,
			Status:      doStatus,
			ValidUntil:  now.Add(7 * 24 * time.Hour),
		}); err != nil {
			return err
		}

		if err := st.UpsertReturnInstruction(ctx, model.EmptyReturnInstruction{
			ID:            fmt.Sprintf("eri-%03d", i),
			ContainerID:   c.ID,
			AllowedDepots: []string{"Depot A (Tan Thuan)", "Depot B (Cat Lai)"},
			Notes:         "Clean before return",
		}); err != nil {
			return err
		}
	}

	logg.Infof("seeded 1 vessel, 20 containers, 5 depots, %d gate windows", 7*24)
	logg.Infof("CONT-013 has a delivery order on HOLD")
	return nil
}
