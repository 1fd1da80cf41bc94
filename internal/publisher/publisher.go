package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/config"
	"github.com/jgoulah/energycalc/pkg/models"
)

// ErrNoTarget is returned when neither Home Assistant nor MQTT is enabled
var ErrNoTarget = errors.New("no publish target enabled (home_assistant or mqtt)")

// Publisher pushes estimates to Home Assistant and/or an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
	logger      *zap.Logger
}

// New creates a new publisher for the enabled targets
func New(cfg *config.Config, logger *zap.Logger) (*Publisher, error) {
	haCfg := cfg.HomeAssistant
	mqttCfg := cfg.MQTT

	if !haCfg.Enabled && !mqttCfg.Enabled {
		return nil, ErrNoTarget
	}

	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("energycalc")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.GetTopicPrefix(),
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}, nil
}

// HAPayload matches the Home Assistant state API body
type HAPayload struct {
	State      string       `json:"state"`
	Attributes HAAttributes `json:"attributes"`
}

// HAAttributes are the extra sensor attributes sent with a state
type HAAttributes struct {
	UnitOfMeasurement string   `json:"unit_of_measurement"`
	FriendlyName      string   `json:"friendly_name"`
	DeviceClass       string   `json:"device_class"`
	EstimateID        string   `json:"estimate_id"`
	Housing           string   `json:"housing"`
	Policy            string   `json:"policy"`
	Appliances        []string `json:"appliances"`
	MonthlyKWh        float64  `json:"monthly_kwh"`
	EstimatedAt       string   `json:"estimated_at"`
}

// Publish sends an estimate to every enabled target
func (p *Publisher) Publish(ctx context.Context, rec models.EstimateRecord) error {
	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, rec); err != nil {
			return err
		}
	}
	if p.client != nil {
		if err := p.publishMQTT(rec); err != nil {
			return err
		}
	}
	p.logger.Debug("published estimate", zap.String("id", rec.ID), zap.Float64("daily_kwh", rec.DailyKWh))
	return nil
}

func (p *Publisher) publishHA(ctx context.Context, rec models.EstimateRecord) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", p.haConfig.URL, p.haConfig.EntityID)

	payload := HAPayload{
		State: fmt.Sprintf("%.2f", rec.DailyKWh),
		Attributes: HAAttributes{
			UnitOfMeasurement: "kWh",
			FriendlyName:      "Estimated daily energy",
			DeviceClass:       "energy",
			EstimateID:        rec.ID,
			Housing:           rec.Housing,
			Policy:            rec.Policy,
			Appliances:        rec.Appliances,
			MonthlyKWh:        rec.MonthlyKWh,
			EstimatedAt:       rec.CreatedAt.Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// HA answers 201 for a new entity and 200 for an update
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (p *Publisher) publishMQTT(rec models.EstimateRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding MQTT payload: %w", err)
	}

	topic := p.topicPrefix + "/estimate"
	token := p.client.Publish(topic, 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
