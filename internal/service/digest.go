package service

import "time"

// digestWindowDays is the lookback for the weekly emotion digest
const digestWindowDays = 7

// SendWeeklyDigests emails each recently active user their most frequent
// emotion over the past week. Per-user failures are logged and skipped so one
// bad address never blocks the rest of the run.
func (s *Service) SendWeeklyDigests() {
	if s.mailer == nil {
		return
	}

	from := time.Now().AddDate(0, 0, -digestWindowDays)
	users, err := s.repo.ListUsersActiveSince(from)
	if err != nil {
		s.log.Errorf("Failed to list users for weekly digest: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		entries, err := s.repo.FindEntriesSince(user.ID, from)
		if err != nil {
			s.log.Errorf("Failed to load digest entries for %s: %v", user.Username, err)
			continue
		}
		if len(entries) == 0 {
			continue
		}

		counts := make(map[string]int)
		top := entries[0].Emotion
		for _, e := range entries {
			counts[e.Emotion]++
			if counts[e.Emotion] > counts[top] {
				top = e.Emotion
			}
		}

		if err := s.mailer.SendWeeklyDigest(user.Email, user.Username, top, len(entries)); err != nil {
			s.log.Errorf("Failed to send digest to %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	s.log.Infof("Weekly digest run complete: %d of %d users emailed", sent, len(users))
}
