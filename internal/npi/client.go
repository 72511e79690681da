package npi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/redisstore"
)

var (
	ErrInvalidNumber = errors.New("npi: number must be exactly 10 digits")
	ErrNotFound      = errors.New("npi: not found in registry")
)

var numberPattern = regexp.MustCompile(`^\d{10}$`)

type ProviderInfo struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name,omitempty"`
	Credential       string `json:"credential,omitempty"`
	ProviderType     string `json:"provider_type,omitempty"`
	Gender           string `json:"gender,omitempty"`
	EnumerationDate  string `json:"enumeration_date,omitempty"`
	LastUpdated      string `json:"last_updated,omitempty"`
	Status           string `json:"status,omitempty"`
}

// Client looks up providers in the NPPES registry. Results are cached per
// requesting user for the configured validity window (24h by default), so a
// clinician verifies at most once per session.
type Client struct {
	BaseURL  string
	Client   *http.Client
	cache    *redisstore.Store
	cacheTTL time.Duration
}

func NewClient(baseURL string, cache *redisstore.Store, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://npiregistry.cms.hhs.gov/api/"
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Client{
		BaseURL:  baseURL,
		Client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

type registryResp struct {
	ResultCount int `json:"result_count"`
	Results     []struct {
		Basic struct {
			FirstName        string `json:"first_name"`
			LastName         string `json:"last_name"`
			OrganizationName string `json:"organization_name"`
			Credential       string `json:"credential"`
			ProviderType     string `json:"provider_type"`
			Gender           string `json:"gender"`
			EnumerationDate  string `json:"enumeration_date"`
			LastUpdated      string `json:"last_updated"`
			Status           string `json:"status"`
		} `json:"basic"`
	} `json:"results"`
}

// Verify validates the number locally, consults the per-user cache, and only
// then hits the registry. Cache write failures are logged, not surfaced.
func (c *Client) Verify(ctx context.Context, userID, number string) (*ProviderInfo, error) {
	if !numberPattern.MatchString(number) {
		return nil, ErrInvalidNumber
	}

	if c.cache != nil {
		if cached, err := c.cache.GetNPIResult(ctx, userID, number); err == nil {
			var info ProviderInfo
			if err := json.Unmarshal(cached, &info); err == nil {
				return &info, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("npi cache read failed user=%s err=%v", userID, err)
		}
	}

	endpoint := fmt.Sprintf("%s?number=%s&version=2.1", c.BaseURL, url.QueryEscape(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("npi: registry status %d", resp.StatusCode)
	}

	var decoded registryResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.ResultCount == 0 || len(decoded.Results) == 0 {
		return nil, ErrNotFound
	}

	b := decoded.Results[0].Basic
	info := &ProviderInfo{
		FirstName:        b.FirstName,
		LastName:         b.LastName,
		OrganizationName: b.OrganizationName,
		Credential:       b.Credential,
		ProviderType:     b.ProviderType,
		Gender:           b.Gender,
		EnumerationDate:  b.EnumerationDate,
		LastUpdated:      b.LastUpdated,
		Status:           b.Status,
	}

	if c.cache != nil {
		if payload, err := json.Marshal(info); err == nil {
			if err := c.cache.SetNPIResult(ctx, userID, number, payload, c.cacheTTL); err != nil {
				log.Printf("npi cache write failed user=%s err=%v", userID, err)
			}
		}
	}
	return info, nil
}
