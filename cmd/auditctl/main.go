// auditctl verifies that every order's status history agrees with its current
// status, and can backfill orders created before history logging existed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marwah-tailors/marwah-tailors-api/models"
)

type auditFinding struct {
	Order      models.Order
	LastStatus string
	EntryCount int64
	Problem    string
	Backfilled bool
}

func main() {
	var (
		dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string (defaults to DATABASE_URL)")
		backfill = flag.Bool("backfill", false, "append a reconciling history entry for each diverged order")
		limit    = flag.Int("limit", 0, "max number of orders to scan (0 = all)")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("no DSN: pass -dsn or set DATABASE_URL")
	}

	db, err := gorm.Open(postgres.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	start := time.Now()
	findings, scanned, err := scanOrders(db, *limit, *backfill)
	if err != nil {
		log.Fatalf("audit failed: %v", err)
	}

	log.Printf("scanned %d orders in %s, %d with diverged history", scanned, time.Since(start), len(findings))

	if len(findings) == 0 {
		return
	}

	printFindings(findings)

	if !*backfill {
		log.Println("run with -backfill to append reconciling history entries")
	}
}

// scanOrders walks every order and compares its status column against the
// newest history entry.
func scanOrders(db *gorm.DB, limit int, backfill bool) ([]auditFinding, int, error) {
	query := db.Model(&models.Order{}).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	var findings []auditFinding
	for _, order := range orders {
		var count int64
		if err := db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count history for order %s: %w", order.Token, err)
		}

		finding := auditFinding{Order: order, EntryCount: count}

		if count == 0 {
			finding.LastStatus = "-"
			finding.Problem = "no history"
		} else {
			var last models.OrderStatusHistory
			err := db.Where("order_id = ?", order.ID).
				Order("created_at DESC, id DESC").
				First(&last).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("failed to load history for order %s: %w", order.Token, err)
			}
			finding.LastStatus = string(last.Status)
			if last.Status == order.Status {
				continue
			}
			finding.Problem = "stale history"
		}

		if backfill {
			entry := models.OrderStatusHistory{
				OrderID: order.ID,
				Status:  order.Status,
				Note:    "Backfilled by auditctl",
			}
			if err := db.Create(&entry).Error; err != nil {
				return nil, 0, fmt.Errorf("failed to backfill order %s: %w", order.Token, err)
			}
			finding.Backfilled = true
		}

		findings = append(findings, finding)
	}

	return findings, len(orders), nil
}

func printFindings(findings []auditFinding) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Order", "Status", "Last History", "Entries", "Problem", "Backfilled"})

	for _, f := range findings {
		table.Append([]string{
			f.Order.Token,
			string(f.Order.Status),
			f.LastStatus,
			strconv.FormatInt(f.EntryCount, 10),
			f.Problem,
			strconv.FormatBool(f.Backfilled),
		})
	}

	if err := table.Render(); err != nil {
		log.Printf("failed to render report: %v", err)
	}
}
