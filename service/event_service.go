package service

import (
	"context"
	"time"

	"github.com/ghprofile/profile-api/cache"
	"github.com/ghprofile/profile-api/model"
	"github.com/ghprofile/profile-api/source"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
)

const eventsQueryKey = "events"

type EventService interface {
	FetchEvents(ctx context.Context) ([]model.ActivityEvent, error)
	FetchCalendar(ctx context.Context, now time.Time) (model.Calendar, error)
}

type eventService struct {
	source   source.Source
	cache    *cache.QueryCache
	location *time.Location
}

func NewEventService(src source.Source, queryCache *cache.QueryCache, location *time.Location) EventService {
	if location == nil {
		location = time.UTC
	}

	return eventService{
		source:   src,
		cache:    queryCache,
		location: location,
	}
}

func (s eventService) FetchEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	return cache.Fetch(ctx, s.cache, eventsQueryKey, s.listEvents)
}

// FetchCalendar buckets the activity events in the calendar window ending on now
func (s eventService) FetchCalendar(ctx context.Context, now time.Time) (model.Calendar, error) {
	events, err := s.FetchEvents(ctx)
	if err != nil {
		log.WithError(err).Error("unable to fetch activity events")
		return model.Calendar{}, err
	}

	return BuildCalendar(events, now, s.location), nil
}

func (s eventService) listEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	events, err := s.source.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	activity := make([]model.ActivityEvent, 0, len(events))

	for _, e := range events {
		if e == nil || e.CreatedAt == nil {
			log.WithField("eventID", e.GetID()).Debug("event without creation date. skipped")
			continue
		}

		activity = append(activity, toActivityEvent(e))
	}

	log.WithField("numberOfEvents", len(activity)).Debug("activity events loaded")

	return activity, nil
}

func toActivityEvent(e *github.Event) model.ActivityEvent {
	return model.ActivityEvent{
		Type: e.GetType(),
		Actor: model.Actor{
			// go-github drops display_login, it equals login for the user own events
			DisplayLogin: e.GetActor().GetLogin(),
			URL:          e.GetActor().GetURL(),
			AvatarURL:    e.GetActor().GetAvatarURL(),
		},
		Repository: model.EventRepository{
			Name: e.GetRepo().GetName(),
			URL:  e.GetRepo().GetURL(),
		},
		CreatedAt: e.GetCreatedAt().Time,
	}
}
