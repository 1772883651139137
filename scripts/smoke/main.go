// Command smoke runs an end-to-end booking flow against a live server:
// register a provider and a customer, publish a slot, book it, verify the
// losing double-book gets a conflict, then cancel. Exits non-zero on the
// first failed step.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type client struct {
	base string
	http *http.Client
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	c := &client{base: base, http: &http.Client{Timeout: timeout}}

	if err := c.checkHealth(); err != nil {
		log.Fatalf("health check failed: %v", err)
	}

	stamp := time.Now().UnixNano()
	providerEmail := fmt.Sprintf("smoke-provider-%d@example.com", stamp)
	customerEmail := fmt.Sprintf("smoke-customer-%d@example.com", stamp)

	providerToken, providerID, err := c.registerAndLogin(providerEmail, "contractor", "plumbing")
	if err != nil {
		log.Fatalf("provider setup failed: %v", err)
	}
	customerToken, _, err := c.registerAndLogin(customerEmail, "customer", "")
	if err != nil {
		log.Fatalf("customer setup failed: %v", err)
	}

	eventID, err := c.createSlot(providerToken)
	if err != nil {
		log.Fatalf("create slot failed: %v", err)
	}
	fmt.Printf("provider %d published slot %d\n", providerID, eventID)

	if status, err := c.book(customerToken, eventID); err != nil || status != http.StatusOK {
		log.Fatalf("first booking: status=%d err=%v", status, err)
	}
	fmt.Println("first booking confirmed")

	if status, err := c.book(customerToken, eventID); err != nil || status != http.StatusConflict {
		log.Fatalf("double booking should conflict: status=%d err=%v", status, err)
	}
	fmt.Println("double booking rejected with conflict")

	if status, err := c.cancel(customerToken, eventID); err != nil || status != http.StatusOK {
		log.Fatalf("cancel: status=%d err=%v", status, err)
	}
	fmt.Println("booking cancelled")

	fmt.Println("smoke flow passed")
	os.Exit(0)
}

func (c *client) checkHealth() error {
	resp, err := c.http.Get(c.base + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *client) registerAndLogin(email, userType, serviceType string) (token string, userID int64, err error) {
	register := map[string]interface{}{
		"name":      "Smoke User",
		"email":     email,
		"password":  "smoke-test-1",
		"user_type": userType,
	}
	if serviceType != "" {
		register["service_type"] = serviceType
	}
	if _, _, err = c.postJSON("/api/register", "", register); err != nil {
		return "", 0, fmt.Errorf("register: %w", err)
	}

	status, body, err := c.postJSON("/api/login", "", map[string]interface{}{
		"email":    email,
		"password": "smoke-test-1",
	})
	if err != nil {
		return "", 0, fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK {
		return "", 0, fmt.Errorf("login status %d", status)
	}

	var login struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		return "", 0, fmt.Errorf("decode login: %w", err)
	}
	return login.AccessToken, login.User.ID, nil
}

func (c *client) createSlot(token string) (int64, error) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	status, body, err := c.postJSON("/api/calendar", token, map[string]interface{}{
		"title":      "Smoke slot",
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusCreated {
		return 0, fmt.Errorf("create slot status %d", status)
	}
	var event struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return 0, fmt.Errorf("decode slot: %w", err)
	}
	return event.ID, nil
}

func (c *client) book(token string, eventID int64) (int, error) {
	status, _, err := c.postJSON(fmt.Sprintf("/api/calendar/book/%d", eventID), token, nil)
	return status, err
}

func (c *client) cancel(token string, eventID int64) (int, error) {
	status, _, err := c.postJSON(fmt.Sprintf("/api/calendar/cancel/%d", eventID), token, nil)
	return status, err
}

func (c *client) postJSON(path, token string, payload interface{}) (int, json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, c.base+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, raw, nil
	}
	if env.Error != nil && resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, env.Data, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	return resp.StatusCode, env.Data, nil
}
