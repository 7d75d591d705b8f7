package analyze

import "github.com/gaiashield/gaiashield/internal/domain/analysis"

// Canned responses returned in demo mode so the system stays demonstrable
// without any external credential. Each call returns a fresh value; demo
// results are never shared with the cache.

func MockClimate() *analysis.Response {
	return &analysis.Response{
		OK:        true,
		Task:      analysis.TaskClimate,
		RiskLevel: analysis.RiskMedium,
		Findings: []analysis.Finding{
			{
				Title:      "Vague de chaleur prévue J+3 à J+6",
				Evidence:   "Températures maximales atteignant 38°C avec humidité faible",
				Confidence: 0.85,
			},
			{
				Title:      "Conditions sèches prolongées",
				Evidence:   "Précipitations totales < 5mm sur 10 jours",
				Confidence: 0.9,
			},
		},
		Recommendations: []analysis.Recommendation{
			{
				Action:       "Planifier irrigation préventive pour cultures sensibles",
				Impact:       "Réduction pertes de rendement de 15-25%",
				EstSavingUSD: 1200,
			},
			{
				Action:       "Ajuster horaires de travail (tôt matin/fin journée)",
				Impact:       "Réduction risques santé travailleurs, productivité +10%",
				EstSavingUSD: 800,
			},
			{
				Action:       "Vérifier systèmes de refroidissement et backup électrique",
				Impact:       "Éviter pertes stock périssable",
				EstSavingUSD: 2500,
			},
		},
		Notes: "Conditions climatiques défavorables nécessitant préparation immédiate. Prioriser protection des actifs critiques.",
	}
}

func MockBusiness() *analysis.Response {
	score := 62
	return &analysis.Response{
		OK:        true,
		Task:      analysis.TaskBusiness,
		Score:     &score,
		RiskLevel: analysis.RiskMedium,
		Findings: []analysis.Finding{
			{
				Title:      "Dépendance excessive à un fournisseur principal",
				Evidence:   "60% des approvisionnements via un seul fournisseur (onTimeRate: 0.75)",
				Confidence: 0.9,
			},
			{
				Title:      "Rotation stock sous-optimale",
				Evidence:   "Délais moyens de réapprovisionnement: 18 jours, stock actuel: 45 jours",
				Confidence: 0.85,
			},
			{
				Title:      "Tendance ventes en baisse",
				Evidence:   "Revenus -12% sur les 10 derniers jours vs période précédente",
				Confidence: 0.75,
			},
		},
		Recommendations: []analysis.Recommendation{
			{
				Action:       "Diversifier fournisseurs: identifier 2 sources alternatives pour SKU critiques",
				Impact:       "Réduction risque rupture de 40%, amélioration négociation prix",
				EstSavingUSD: 3500,
			},
			{
				Action:       "Optimiser niveaux de stock: réduire à 30 jours pour produits à rotation rapide",
				Impact:       "Libération trésorerie, réduction coûts stockage 25%",
				EstSavingUSD: 2800,
			},
			{
				Action:       "Automatiser alertes de réapprovisionnement basées sur seuils dynamiques",
				Impact:       "Éviter ruptures stock, réduction temps gestion 30%",
				EstSavingUSD: 1500,
			},
		},
		Notes: "Score de résilience moyen (62/100). Priorité: diversification supply chain et optimisation trésorerie.",
	}
}

func MockCyber() *analysis.Response {
	return &analysis.Response{
		OK:   true,
		Task: analysis.TaskCyber,
		Actions: []analysis.Action{
			{
				Type:           analysis.ActionBlock,
				Reason:         "Email de phishing détecté: expéditeur usurpé, urgence artificielle, lien suspect",
				EventID:        "evt_001",
				Classification: analysis.ClassMalicious,
			},
			{
				Type:           analysis.ActionQuarantine,
				Reason:         "URL suspecte: domaine récent, HTTPS manquant, redirection multiple",
				EventID:        "evt_002",
				Classification: analysis.ClassSuspicious,
			},
			{
				Type:           analysis.ActionIgnore,
				Reason:         "Email légitime: expéditeur vérifié, contenu cohérent",
				EventID:        "evt_003",
				Classification: analysis.ClassSafe,
			},
		},
		Findings: []analysis.Finding{
			{
				Title:      "Tentative de phishing par usurpation d'identité",
				Evidence:   "Domaine expéditeur: paypa1.com (typosquatting), demande urgente de mise à jour compte",
				Confidence: 0.95,
			},
			{
				Title:      "URL potentiellement malveillante",
				Evidence:   "Domaine enregistré il y a 3 jours, hébergement suspect, pas de HTTPS",
				Confidence: 0.75,
			},
		},
		Notes: "2 menaces détectées sur 10 événements analysés. Recommandation: formation utilisateurs sur phishing.",
	}
}
