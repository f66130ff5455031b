package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultRandomUserCount = 10
	MaxRandomUserCount     = 5000
)

// UserProvider supplies synthetic people.
type UserProvider interface {
	FetchUsers(ctx context.Context, count int) ([]models.User, error)
}

// RandomUserProvider calls a randomuser.me compatible API. Calls are paced by
// a token bucket so seeding never hammers the upstream.
type RandomUserProvider struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewRandomUserProvider(baseURL string, rps float64) *RandomUserProvider {
	if rps <= 0 {
		rps = 1
	}
	return &RandomUserProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type randomUserResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Large string `json:"large"`
		} `json:"picture"`
	} `json:"results"`
}

func (p *RandomUserProvider) FetchUsers(ctx context.Context, count int) ([]models.User, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, domain.Internal("random user rate limit", err)
		}
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, domain.Internal("invalid random user api url", err)
	}
	q := u.Query()
	q.Set("results", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, domain.Internal("failed to build random user request", err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.Internal("failed to fetch random users", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Internal("failed to fetch random users", fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	var body randomUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.Internal("failed to decode random users", err)
	}

	users := make([]models.User, 0, len(body.Results))
	for _, r := range body.Results {
		user := models.User{
			ID:      uuid.NewString(),
			Name:    utils.NormalizeSpace(r.Name.First + " " + r.Name.Last),
			Email:   strings.ToLower(strings.TrimSpace(r.Email)),
			Picture: strings.TrimSpace(r.Picture.Large),
		}
		if err := user.Validate(); err != nil {
			utils.LogEvent(utils.RequestIDFrom(ctx), "users", "drop_invalid", err.Error())
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

type UserService struct {
	Provider UserProvider
}

// GetRandomUsers clamps count into [1, MaxRandomUserCount].
func (s UserService) GetRandomUsers(ctx context.Context, count int) ([]models.User, error) {
	switch {
	case count <= 0:
		count = DefaultRandomUserCount
	case count > MaxRandomUserCount:
		count = MaxRandomUserCount
	}
	users, err := s.Provider.FetchUsers(ctx, count)
	if err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "users", "fetch_random", "error="+err.Error())
		return nil, err
	}
	return users, nil
}
