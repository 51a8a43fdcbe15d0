package intel

// Provider category IDs mapped to the attack types the globe renders.
var categoryTypes = map[int]string{
	4:  "ddos",       // DDoS attack
	14: "ddos",       // port scan
	21: "bruteforce", // brute-force
	18: "bruteforce", // SSH
	22: "bruteforce", // web
	5:  "bruteforce", // FTP
	19: "bot",        // bad web bot
	10: "bot",        // email spam
	11: "bot",        // email spam (mail)
	15: "bot",        // hacking
}

// TypeFor maps provider categories to an attack type. Unknown or empty
// category lists default to "ddos".
func TypeFor(categories []int) string {
	for _, cat := range categories {
		if t, ok := categoryTypes[cat]; ok {
			return t
		}
	}
	return "ddos"
}

// SeverityFor derives a 1–5 severity from the provider's confidence score
// (0–100) and report count. Confidence dominates; a high report count adds
// at most half a band.
func SeverityFor(confidenceScore, totalReports int) int {
	base := float64(confidenceScore) / 100.0

	bonus := float64(totalReports) / 100.0
	if bonus > 0.5 {
		bonus = 0.5
	}

	switch combined := base + bonus; {
	case combined >= 1.2:
		return 5
	case combined >= 0.9:
		return 4
	case combined >= 0.6:
		return 3
	case combined >= 0.3:
		return 2
	default:
		return 1
	}
}
