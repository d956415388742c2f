// Command negotiateprobe exercises a running SalaryRep backend end to end:
// it creates a session, submits one candidate message over the SSE stream,
// prints the counterpart reply, ends the session, and requests feedback.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	base := flag.String("base", "http://localhost:8080", "backend base URL")
	role := flag.String("role", "Senior Software Engineer", "target role")
	salary := flag.String("salary", "150,000", "target salary")
	industry := flag.String("industry", "Technology", "industry")
	size := flag.String("size", "Startup (1-50)", "company size")
	experience := flag.String("experience", "Senior (6-10 years)", "experience level")
	personaID := flag.String("persona", "tough-hiring-manager", "counterpart persona id")
	message := flag.String("message", "Thanks! Based on my research I'm looking for $150,000.", "candidate message to send")
	withFeedback := flag.Bool("feedback", false, "end the session and request feedback after two exchanges")
	timeout := flag.Duration("timeout", 90*time.Second, "request timeout")

	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	sessionID, err := createSession(client, *base, map[string]string{
		"role":         *role,
		"targetSalary": *salary,
		"industry":     *industry,
		"companySize":  *size,
		"experience":   *experience,
		"persona":      *personaID,
	})
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	log.Printf("session created: %s", sessionID)

	reply, err := streamMessage(client, *base, sessionID, *message)
	if err != nil {
		log.Fatalf("stream message: %v", err)
	}
	log.Printf("counterpart: %s", reply)

	if !*withFeedback {
		return
	}

	// One more exchange so the transcript clears the minimum turn count.
	if _, err := streamMessage(client, *base, sessionID, "I appreciate the offer, but my number is firm based on market data."); err != nil {
		log.Fatalf("stream message: %v", err)
	}

	if err := post(client, *base+"/api/sessions/"+sessionID+"/end", nil); err != nil {
		log.Fatalf("end session: %v", err)
	}

	feedback, err := requestFeedback(client, *base, sessionID)
	if err != nil {
		log.Fatalf("request feedback: %v", err)
	}
	log.Printf("feedback: %s", feedback)
}

func createSession(client *http.Client, base string, scenario map[string]string) (string, error) {
	payload, err := json.Marshal(scenario)
	if err != nil {
		return "", err
	}

	resp, err := client.Post(base+"/api/sessions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", err
	}
	return session.ID, nil
}

func streamMessage(client *http.Client, base, sessionID, message string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/stream/%s?message=%s", base, sessionID, url.QueryEscape(message))
	resp, err := client.Get(endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var final string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var frame struct {
			Event   string `json:"event"`
			Content string `json:"content"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			continue
		}

		switch frame.Event {
		case "message":
			final = frame.Content
		case "error":
			return "", fmt.Errorf("stream error: %s", frame.Error)
		case "end":
			return final, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return final, nil
}

func post(client *http.Client, endpoint string, body []byte) error {
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}
	return nil
}

func requestFeedback(client *http.Client, base, sessionID string) (string, error) {
	resp, err := client.Post(base+"/api/sessions/"+sessionID+"/feedback", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}
