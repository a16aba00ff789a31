package smsgateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/config"
)

// Gateway represents an SMS gateway interface
type Gateway interface {
	SendSMS(msisdn, message string) (string, error)
}

// SendoxiGateway sends SMS through the Sendoxi DLT-registered route
type SendoxiGateway struct {
	baseURL       string
	apiKey        string
	basicUser     string
	basicPass     string
	senderID      string
	entityID      string
	templateID    string
	countryCode   string
	httpClient    *http.Client
}

// MockGateway is a no-op SMS gateway for development and tests
type MockGateway struct {
	Sent []SentMessage
}

// SentMessage records one message handed to the mock gateway
type SentMessage struct {
	MSISDN  string
	Message string
}

// NewSendoxiGateway creates a new Sendoxi SMS gateway
func NewSendoxiGateway(cfg *config.Config) Gateway {
	return &SendoxiGateway{
		baseURL:     cfg.SMS.Sendoxi.BaseURL,
		apiKey:      cfg.SMS.Sendoxi.APIKey,
		basicUser:   cfg.SMS.Sendoxi.BasicUser,
		basicPass:   cfg.SMS.Sendoxi.BasicPass,
		senderID:    cfg.SMS.Sendoxi.SenderID,
		entityID:    cfg.SMS.Sendoxi.DLTEntityID,
		templateID:  cfg.SMS.Sendoxi.OTPTemplateID,
		countryCode: cfg.SMS.Sendoxi.CountryCode,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new mock SMS gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

type sendoxiRequest struct {
	MessageContent string `json:"messageContent"`
	SenderID       string `json:"senderID"`
	TemplateID     string `json:"templateID"`
	Destination    string `json:"destination"`
	EntityID       string `json:"entityId"`
	CountryCode    string `json:"countryCode"`
}

type sendoxiResponse struct {
	ResponseResult struct {
		ResponseCode int    `json:"responseCode"`
		Message      string `json:"message"`
	} `json:"responseResult"`
	Data []struct {
		MsgID string `json:"msgID"`
	} `json:"data"`
}

// SendSMS sends an SMS through Sendoxi and returns the gateway message id
func (g *SendoxiGateway) SendSMS(msisdn, message string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("sendoxi gateway not configured")
	}

	payload := sendoxiRequest{
		MessageContent: message,
		SenderID:       g.senderID,
		TemplateID:     g.templateID,
		Destination:    msisdn,
		EntityID:       g.entityID,
		CountryCode:    g.countryCode,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/send/v1/single_sms_post", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(g.basicUser + ":" + g.basicPass))
	req.Header.Set("apiKey", g.apiKey)
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendoxi request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed sendoxiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("sendoxi response malformed: %w", err)
	}
	if parsed.ResponseResult.ResponseCode != 200 {
		return "", fmt.Errorf("sendoxi rejected message: %s", parsed.ResponseResult.Message)
	}
	if len(parsed.Data) > 0 {
		return parsed.Data[0].MsgID, nil
	}
	return "", nil
}

// SendSMS records the message and returns a mock id
func (g *MockGateway) SendSMS(msisdn, message string) (string, error) {
	g.Sent = append(g.Sent, SentMessage{MSISDN: msisdn, Message: message})
	return fmt.Sprintf("MOCK-MSG-%d", time.Now().UnixNano()), nil
}
