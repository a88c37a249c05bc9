package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fundadmin/internal/models"
	"fundadmin/pkg/config"
)

// Exports the full audit trail of one entity to a JSON file, for
// handing to auditors without giving them database access.
func main() {
	entityType := flag.String("entity-type", "", "entity type (fund, commitment, capital_call, call_item, distribution, distribution_item)")
	entityID := flag.Uint("entity-id", 0, "entity ID")
	fileName := flag.String("file-name", "", "output file name")
	flag.Parse()

	if *entityType == "" {
		log.Fatal("entity-type is required")
	}
	if *entityID == 0 {
		log.Fatal("entity-id is required")
	}
	if *fileName == "" {
		log.Fatal("file-name is required")
	}

	config.InitDB()

	var records []models.AuditRecord
	err := config.DB.
		Where("entity_type = ? AND entity_id = ?", *entityType, *entityID).
		Order("id").
		Find(&records).Error
	if err != nil {
		log.Fatalf("Failed to load audit records: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("No audit records for %s %d", *entityType, *entityID)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal audit records: %v", err)
	}

	outPath := filepath.Clean(*fileName)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", outPath, err)
	}

	fmt.Printf("Exported %d audit records to %s\n", len(records), outPath)
}
