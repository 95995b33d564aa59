package pool

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/idhash"
)

// Candidate CSV columns: name, club, role, price.
// Score CSV columns: name, club, role, gameweek, score.
// Candidate IDs are derived from (name, club, role) so both tables join
// without an explicit ID column.

// LoadCandidates parses a candidate table. Malformed rows (non-positive
// price, unrecognized role) are excluded with a warning, not a fatal
// error, mirroring a permissive-loader default.
func LoadCandidates(r io.Reader, log logrus.FieldLogger) ([]domain.Candidate, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read candidate csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := columnIndex(records[0], "name", "club", "role", "price")
	if err != nil {
		return nil, err
	}

	var candidates []domain.Candidate
	for i, rec := range records[1:] {
		name := rec[cols["name"]]
		club := rec[cols["club"]]

		role, ok := domain.ParseRole(rec[cols["role"]])
		if !ok {
			log.WithFields(logrus.Fields{
				"row":  i + 2,
				"name": name,
				"role": rec[cols["role"]],
			}).Warn("Excluding candidate with unrecognized role")
			continue
		}

		price, err := strconv.ParseFloat(rec[cols["price"]], 64)
		if err != nil || price <= 0 {
			log.WithFields(logrus.Fields{
				"row":   i + 2,
				"name":  name,
				"price": rec[cols["price"]],
			}).Warn("Excluding candidate with non-positive or unparsable price")
			continue
		}

		candidates = append(candidates, domain.Candidate{
			ID:    idhash.ComputeCandidateID(name, club, role),
			Name:  name,
			Role:  role,
			Club:  club,
			Price: price,
		})
	}

	return candidates, nil
}

// LoadScores parses a per-gameweek prediction table into score points.
// Rows with unparsable fields are skipped with a warning.
func LoadScores(r io.Reader, log logrus.FieldLogger) ([]domain.ScorePoint, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read score csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := columnIndex(records[0], "name", "club", "role", "gameweek", "score")
	if err != nil {
		return nil, err
	}

	var points []domain.ScorePoint
	for i, rec := range records[1:] {
		role, ok := domain.ParseRole(rec[cols["role"]])
		if !ok {
			log.WithFields(logrus.Fields{"row": i + 2, "role": rec[cols["role"]]}).
				Warn("Skipping score row with unrecognized role")
			continue
		}

		gameweek, err := strconv.Atoi(rec[cols["gameweek"]])
		if err != nil {
			log.WithFields(logrus.Fields{"row": i + 2, "gameweek": rec[cols["gameweek"]]}).
				Warn("Skipping score row with unparsable gameweek")
			continue
		}

		score, err := strconv.ParseFloat(rec[cols["score"]], 64)
		if err != nil {
			log.WithFields(logrus.Fields{"row": i + 2, "score": rec[cols["score"]]}).
				Warn("Skipping score row with unparsable score")
			continue
		}

		points = append(points, domain.ScorePoint{
			CandidateID: idhash.ComputeCandidateID(rec[cols["name"]], rec[cols["club"]], role),
			Gameweek:    gameweek,
			Score:       score,
		})
	}

	return points, nil
}

// columnIndex maps required header names to their positions.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return index, nil
}
