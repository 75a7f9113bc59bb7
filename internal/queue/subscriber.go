package queue

import "go.uber.org/zap"

// Invalidator drops cached campaign listings for a user.
type Invalidator interface {
	Invalidate(userID string)
}

// AsCampaignEvent accepts the event by value or pointer.
func AsCampaignEvent(payload any) (CampaignEvent, bool) {
	switch ev := payload.(type) {
	case CampaignEvent:
		return ev, true
	case *CampaignEvent:
		if ev != nil {
			return *ev, true
		}
	}
	return CampaignEvent{}, false
}

// StartCacheInvalidationSubscriber evicts a user's cached listings whenever their campaigns change.
func StartCacheInvalidationSubscriber(q Queue, cache Invalidator) error {
	handler := func(payload any) error {
		ev, ok := AsCampaignEvent(payload)
		if !ok {
			zap.L().Warn("invalid payload type, expected CampaignEvent")
			return nil // no retry
		}
		if ev.UserID == "" {
			return nil
		}
		cache.Invalidate(ev.UserID)
		zap.L().Debug("campaign listing invalidated",
			zap.String("event", ev.Type),
			zap.String("user_id", ev.UserID),
			zap.String("campaign_id", ev.CampaignID),
		)
		return nil
	}

	for _, topic := range []string{TopicCampaignCreated, TopicCampaignDeleted} {
		if err := q.Subscribe(topic, handler); err != nil {
			return err
		}
	}
	return nil
}
