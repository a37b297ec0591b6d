package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/database"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/analytics"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/form"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type worksite struct {
	id   string
	name string
}

var (
	worksites = []worksite{
		{"ws-north", "North Plant"},
		{"ws-south", "South Depot"},
		{"ws-east", "East Yard"},
	}
	technicians = []string{"tech-ana", "tech-ben", "tech-chen", "tech-dana", "tech-eli"}
	templates   = []string{"tpl-daily-check", "tpl-safety-audit", "tpl-maintenance"}
	statuses    = []analytics.FormStatus{
		analytics.StatusDraft,
		analytics.StatusInProgress,
		analytics.StatusPendingReview,
		analytics.StatusApproved,
		analytics.StatusCompleted,
		analytics.StatusCompleted,
		analytics.StatusCompleted,
		analytics.StatusRejected,
	}
)

func main() {
	days := flag.Int("days", 90, "number of days of history to generate")
	perDay := flag.Int("per-day", 12, "average forms created per day")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	// Initialize Config & DB
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, closeRepo, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	fmt.Println("🌱 Starting Demo Form Seeding...")

	rng := rand.New(rand.NewSource(*seed))
	forms := generateForms(rng, time.Now().UTC(), *days, *perDay)
	if err := repo.Insert(ctx, forms); err != nil {
		log.Fatalf("Failed to insert forms: %v", err)
	}
	fmt.Printf("Created %d forms over %d days\n", len(forms), *days)

	utils.SetSecret(cfg.JWTSecret)
	printToken("admin", []string{"admin"}, nil)
	printToken(worksites[0].id+"-manager", []string{"manager"}, []string{worksites[0].id, worksites[1].id})
	printToken(technicians[0], []string{"technician"}, nil)

	fmt.Println("✅ Demo Form Seeding Complete!")
}

func openStore(ctx context.Context, cfg *config.Config) (form.FormRepository, func(), error) {
	if cfg.FormStore == form.StorePostgres {
		repo, err := form.NewPostgresFormRepository(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	mongoDB := &database.MongodbDB{DB: client.Database(cfg.DBName)}
	return form.NewFormRepository(mongoDB), func() { client.Disconnect(context.Background()) }, nil
}

// generateForms spreads forms over the last days with a weekday rhythm and
// a slow upward drift so every trend shape has something to show.
func generateForms(rng *rand.Rand, now time.Time, days, perDay int) []form.Form {
	today := now.Truncate(24 * time.Hour)
	var forms []form.Form

	for d := days; d > 0; d-- {
		day := today.AddDate(0, 0, -d)
		volume := float64(perDay) * (0.8 + 0.4*float64(days-d)/float64(days))
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			volume *= 0.3
		}
		count := int(volume) + rng.Intn(3)

		for i := 0; i < count; i++ {
			site := worksites[rng.Intn(len(worksites))]
			status := statuses[rng.Intn(len(statuses))]
			created := day.Add(time.Duration(6+rng.Intn(12))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)

			f := form.Form{
				TemplateID:   templates[rng.Intn(len(templates))],
				WorksiteID:   site.id,
				WorksiteName: site.name,
				TechnicianID: technicians[rng.Intn(len(technicians))],
				Status:       string(status),
				CreatedAt:    created,
			}
			if status == analytics.StatusCompleted {
				completed := created.Add(time.Duration(15+rng.Intn(240)) * time.Minute)
				if completed.Before(now) {
					f.CompletedAt = &completed
				}
			}
			forms = append(forms, f)
		}
	}
	return forms
}

func printToken(userID string, roles, sites []string) {
	token, err := utils.GenerateToken(userID, roles, sites, 30*24*time.Hour)
	if err != nil {
		log.Printf("Failed to sign token for %s: %v", userID, err)
		return
	}
	fmt.Printf("%s token: %s\n", roles[0], token)
}
