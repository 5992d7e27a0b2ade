package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var calsvc *calendar.Service

func getCalendarClient(conf *oauth2.Config) (*http.Client, error) {
	secretsPath := os.Getenv("SECRETS_DIR")
	tokFile, err := os.Open(path.Join(secretsPath, "token.json"))
	if err != nil {
		return nil, err
	}
	defer tokFile.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(tokFile).Decode(tok); err != nil {
		return nil, err
	}

	cli := conf.Client(context.Background(), tok)
	return cli, nil
}

func gapiGetCalendarService() (svc *calendar.Service, err error) {
	if calsvc != nil {
		return calsvc, nil
	}
	secretsPath := os.Getenv("SECRETS_DIR")
	b, err := os.ReadFile(path.Join(secretsPath, "client_secret.json"))
	if err != nil {
		return nil, err
	}
	conf, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, err
	}
	cli, err := getCalendarClient(conf)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(cli))
	if err != nil {
		return nil, err
	}
	calsvc = srv
	return srv, nil
}

func GAPIAddEvent(calId string, e *calendar.Event, s *calendar.Service) (err error) {
	if s == nil {
		s, err = gapiGetCalendarService()
		if err != nil {
			return err
		}
	}
	cli := s.Events.Insert(calId, e)
	_, err = cli.Do()
	return err
}
