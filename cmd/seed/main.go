// Сидинг демо-данных для локальной разработки:
// слоты доступности на ближайшие недели, объекты недвижимости и клиенты.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/Realty-BookingService/internal/config"
	"github.com/m04kA/Realty-BookingService/internal/domain"
	clientRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/client"
	propertyRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/property"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Realty-BookingService/pkg/logger"
	"github.com/m04kA/Realty-BookingService/pkg/ptr"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

const (
	seedDays       = 14
	seedProperties = 20
	seedClients    = 15
)

// Рабочие времена агента: будни, часовая сетка
var slotTimes = []string{"10:00", "11:00", "12:00", "16:00", "17:00", "18:00"}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	defaultAgentID, err := cfg.Booking.DefaultAgentUUID()
	if err != nil {
		log.Fatal("Invalid default agent id: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	ctx := context.Background()
	faker := gofakeit.New(0)

	slots := slotRepo.NewRepository(db)
	properties := propertyRepo.NewRepository(db)
	clients := clientRepo.NewRepository(db)

	// Слоты на ближайшие недели, выходные пропускаем
	createdSlots := 0
	today := time.Now()
	for day := 0; day < seedDays; day++ {
		date := today.AddDate(0, 0, day)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		for _, raw := range slotTimes {
			startTime, err := types.NewTimeStringFromString(raw)
			if err != nil {
				log.Fatal("Invalid seed time %s: %v", raw, err)
			}

			if _, err := slots.Create(ctx, &domain.Slot{
				AgentID:   defaultAgentID,
				Date:      dateOnly,
				StartTime: startTime,
				Capacity:  domain.DefaultSlotCapacity,
				Booked:    0,
				Enabled:   true,
			}); err != nil {
				// Повторный запуск сидинга упирается в unique(agent_id, date, start_time)
				log.Warn("Skip slot %s %s: %v", dateOnly.Format(domain.DateFormat), raw, err)
				continue
			}
			createdSlots++
		}
	}
	log.Info("Seeded %d slots", createdSlots)

	// Объекты недвижимости
	for i := 0; i < seedProperties; i++ {
		operationType := domain.OperationRent
		price := float64(faker.Number(8000, 45000))
		if faker.Bool() {
			operationType = domain.OperationBuy
			price = float64(faker.Number(900000, 12000000))
		}

		if _, err := properties.Create(ctx, &domain.Property{
			Title:         fmt.Sprintf("%s en %s", faker.RandomString([]string{"Departamento", "Casa", "Loft", "Penthouse"}), faker.City()),
			Description:   ptr.Ptr(faker.Sentence(12)),
			OperationType: operationType,
			Price:         price,
			Location:      ptr.Ptr(faker.Address().City),
		}); err != nil {
			log.Fatal("Failed to seed property: %v", err)
		}
	}
	log.Info("Seeded %d properties", seedProperties)

	// Клиенты CRM
	for i := 0; i < seedClients; i++ {
		if _, err := clients.Upsert(ctx, &domain.Client{
			Name:  faker.Name(),
			Email: faker.Email(),
			Phone: ptr.Ptr(faker.Phone()),
		}); err != nil {
			log.Fatal("Failed to seed client: %v", err)
		}
	}
	log.Info("Seeded %d clients", seedClients)

	log.Info("Seeding done")
}
