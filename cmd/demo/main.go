// Command demo posts sample payloads to a running GaiaShield server and
// pretty-prints the analysis results.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gaiashield/gaiashield/internal/domain/analysis"
)

func main() {
	app := &cli.App{
		Name:  "demo",
		Usage: "exercise the GaiaShield analysis endpoints with sample data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:3001",
				Usage:   "base URL of the GaiaShield server",
				EnvVars: []string{"API_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "climate",
				Usage: "run the climate_guard sample",
				Action: func(c *cli.Context) error {
					return post(c.String("api-url"), "climate_guard", climateSample())
				},
			},
			{
				Name:  "business",
				Usage: "run the business_shield sample",
				Action: func(c *cli.Context) error {
					return post(c.String("api-url"), "business_shield", businessSample())
				},
			},
			{
				Name:  "cyber",
				Usage: "run the cyberprotect sample",
				Action: func(c *cli.Context) error {
					return post(c.String("api-url"), "cyberprotect", cyberSample())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func post(apiURL, task string, payload any) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/analyze/%s", apiURL, task)
	fmt.Printf("sending request to %s\npayload:\n%s\n\n", url, body)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		pretty.Write(out)
	}
	fmt.Printf("status: %s\nresponse:\n%s\n", resp.Status, pretty.String())
	if resp.StatusCode != http.StatusOK {
		return cli.Exit("analysis request failed", 1)
	}
	return nil
}

func climateSample() analysis.ClimateRequest {
	return analysis.ClimateRequest{
		Inputs: analysis.ClimateInputs{
			Lat:         14.7167,
			Lon:         -17.4677,
			HorizonDays: 10,
			Sector:      analysis.SectorAgri,
		},
		Locale: "fr-TN",
		Constraints: analysis.Constraints{
			MaxRecos: 5,
			Tone:     analysis.ToneConcise,
			CostMode: analysis.CostCheapFast,
		},
	}
}

func businessSample() analysis.BusinessRequest {
	energy := 0.15
	cash := 45000.0
	return analysis.BusinessRequest{
		Inputs: analysis.BusinessInputs{
			Sales: []analysis.SalesEntry{
				{Date: "2025-01-01", Qty: 120, Revenue: 3600},
				{Date: "2025-01-02", Qty: 95, Revenue: 2850},
				{Date: "2025-01-03", Qty: 110, Revenue: 3300},
				{Date: "2025-01-04", Qty: 88, Revenue: 2640},
				{Date: "2025-01-05", Qty: 102, Revenue: 3060},
			},
			Stock: []analysis.StockEntry{
				{SKU: "PROD-001", Qty: 450, LeadDays: 14},
				{SKU: "PROD-002", Qty: 220, LeadDays: 21},
				{SKU: "PROD-003", Qty: 180, LeadDays: 10},
			},
			Suppliers: []analysis.SupplierEntry{
				{Name: "Fournisseur A", OnTimeRate: 0.92, Region: "Dakar"},
				{Name: "Fournisseur B", OnTimeRate: 0.75, Region: "Thiès"},
				{Name: "Fournisseur C", OnTimeRate: 0.88, Region: "Saint-Louis"},
			},
			EnergyCostPerKwh: &energy,
			CashOnHand:       &cash,
		},
		Locale: "fr-TN",
		Constraints: analysis.Constraints{
			MaxRecos: 5,
			Tone:     analysis.ToneConcise,
			CostMode: analysis.CostCheapFast,
		},
	}
}

func cyberSample() analysis.CyberRequest {
	return analysis.CyberRequest{
		Inputs: analysis.CyberInputs{
			Events: []analysis.CyberEvent{
				{
					ID:      "evt_001",
					Type:    analysis.EventEmail,
					Content: "URGENT: Votre compte PayPal a été suspendu. Cliquez ici pour réactiver: http://paypa1-secure.tk/login",
					Metadata: map[string]any{
						"from":    "security@paypa1.com",
						"subject": "Action requise immédiatement",
					},
				},
				{
					ID:      "evt_002",
					Type:    analysis.EventURL,
					Content: "http://free-iphone-winner.xyz/claim?ref=sms2025",
					Metadata: map[string]any{
						"source": "SMS inconnu",
					},
				},
				{
					ID:      "evt_003",
					Type:    analysis.EventEmail,
					Content: "Bonjour, voici le rapport mensuel demandé en pièce jointe.",
					Metadata: map[string]any{
						"from":    "comptabilite@entreprise-legitime.sn",
						"subject": "Rapport janvier 2025",
					},
				},
			},
		},
		Locale: "fr-TN",
		Constraints: analysis.Constraints{
			MaxRecos: 5,
			Tone:     analysis.ToneConcise,
			CostMode: analysis.CostCheapFast,
		},
	}
}
