package job

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"genai-hiring-backend/internal/utilities"
)

// OpenAIRequest represents the request structure for the OpenAI API
type OpenAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIResponse represents the response from the OpenAI API
type OpenAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GeneratedFields is the suggestion payload for a job posting's detail fields.
type GeneratedFields struct {
	KeySkills              []string `json:"key_skills"`
	RequiredExperience     string   `json:"required_experience"`
	Certifications         []string `json:"certifications"`
	AdditionalRequirements []string `json:"additional_requirements"`
}

// GeneratedDescription is the suggestion payload for a posting's description.
type GeneratedDescription struct {
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
}

type generateFieldsRequest struct {
	ProjectName     string `json:"project_name"`
	RoleTitle       string `json:"role_title" binding:"required"`
	RoleDescription string `json:"role_description"`
}

type generateDescriptionRequest struct {
	ProjectName            string   `json:"project_name"`
	RoleTitle              string   `json:"role_title" binding:"required"`
	RoleDescription        string   `json:"role_description"`
	KeySkills              []string `json:"key_skills"`
	RequiredExperience     string   `json:"required_experience"`
	Certifications         []string `json:"certifications"`
	AdditionalRequirements []string `json:"additional_requirements"`
}

func callChatCompletion(systemPrompt, userPrompt string, maxTokens int) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	openaiModel := os.Getenv("OPENAI_MODEL")

	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not configured")
	}

	if openaiModel == "" {
		openaiModel = "gpt-4"
	}

	requestBody := OpenAIRequest{
		Model: openaiModel,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// fallbackJobFields returns keyword-based suggestions when the LLM is
// unavailable or returns malformed JSON.
func fallbackJobFields(roleTitle string) GeneratedFields {
	techRoles := []string{"developer", "engineer", "programmer", "architect"}
	dataRoles := []string{"data", "analyst", "scientist"}

	roleLower := strings.ToLower(roleTitle)

	switch {
	case containsAny(roleLower, techRoles):
		return GeneratedFields{
			KeySkills:              []string{"Programming", "Problem Solving", "Team Collaboration"},
			RequiredExperience:     "2-5 years of relevant experience",
			Certifications:         []string{"Relevant technical certifications"},
			AdditionalRequirements: []string{"Strong communication skills", "Ability to work in agile environment"},
		}
	case containsAny(roleLower, dataRoles):
		return GeneratedFields{
			KeySkills:              []string{"Data Analysis", "SQL", "Statistical Analysis"},
			RequiredExperience:     "2-4 years in data analysis",
			Certifications:         []string{"Data analysis certifications"},
			AdditionalRequirements: []string{"Attention to detail", "Business acumen"},
		}
	default:
		return GeneratedFields{
			KeySkills:              []string{"Communication", "Leadership", "Problem Solving"},
			RequiredExperience:     "3-5 years of relevant experience",
			Certifications:         []string{"Industry relevant certifications"},
			AdditionalRequirements: []string{"Team management skills", "Strategic thinking"},
		}
	}
}

// fallbackJobDescription returns a templated description when the LLM is
// unavailable or returns malformed JSON.
func fallbackJobDescription(roleTitle, roleDescription string) GeneratedDescription {
	short := roleDescription
	if len(short) > 100 {
		short = short[:100]
	}
	return GeneratedDescription{
		Description: fmt.Sprintf(`Position: %s

Job Description:
%s

Responsibilities:
- Execute primary job functions as outlined
- Collaborate with team members effectively
- Contribute to project success and company goals
- Maintain high standards of work quality

Requirements:
- Relevant experience in the field
- Strong communication and teamwork skills
- Ability to work independently and manage priorities
- Commitment to continuous learning and improvement

Benefits:
- Competitive salary package
- Professional development opportunities
- Collaborative work environment
- Health and wellness benefits`, roleTitle, roleDescription),
		ShortDescription: fmt.Sprintf("We are seeking a qualified %s to join our team. This role involves %s...", roleTitle, strings.ToLower(short)),
	}
}

// GenerateJobFields suggests detail fields for a job posting.
// @Summary Suggest key skills, experience and requirements for a role
// @Description Uses the configured LLM, falling back to keyword-based suggestions when the LLM is unavailable.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body generateFieldsRequest true "Role information"
// @Success 200 {object} GeneratedFields
// @Failure 400 {object} utilities.ErrorResponse "role_title missing"
// @Router /jobs/generate-fields [post]
func (jc *JobController) GenerateJobFields(c *gin.Context) {
	var req generateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "role_title must be provided"})
		return
	}

	prompt := fmt.Sprintf(`Based on the following job information, suggest relevant fields for a job posting:

Project Name: %s
Role Title: %s
Role Description: %s

Please provide a JSON response with the following structure:
{
	"key_skills": ["skill1", "skill2", "skill3"],
	"required_experience": "X years of experience in...",
	"certifications": ["cert1", "cert2"],
	"additional_requirements": ["req1", "req2"]
}

Make sure the suggestions are relevant to the role and realistic.`,
		req.ProjectName, req.RoleTitle, req.RoleDescription)

	content, err := callChatCompletion(
		"You are an expert HR assistant helping to create detailed job descriptions. Always respond with valid JSON.",
		prompt, 500)
	if err != nil {
		c.JSON(http.StatusOK, fallbackJobFields(req.RoleTitle))
		return
	}

	var fields GeneratedFields
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		c.JSON(http.StatusOK, fallbackJobFields(req.RoleTitle))
		return
	}

	c.JSON(http.StatusOK, fields)
}

// GenerateJobDescription writes a full description for a job posting.
// @Summary Generate a full and a short job description for a role
// @Description Uses the configured LLM, falling back to a templated description when the LLM is unavailable.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body generateDescriptionRequest true "Role information with detail fields"
// @Success 200 {object} GeneratedDescription
// @Failure 400 {object} utilities.ErrorResponse "role_title missing"
// @Router /jobs/generate-description [post]
func (jc *JobController) GenerateJobDescription(c *gin.Context) {
	var req generateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "role_title must be provided"})
		return
	}

	prompt := fmt.Sprintf(`Create a professional job description based on the following information:

Project Name: %s
Role Title: %s
Basic Description: %s
Key Skills: %s
Required Experience: %s
Certifications: %s
Additional Requirements: %s

Please provide a JSON response with:
{
	"description": "A comprehensive job description with sections for responsibilities, requirements, and benefits",
	"short_description": "A brief 2-3 sentence summary of the role"
}

Make the description professional, engaging, and well-structured.`,
		req.ProjectName, req.RoleTitle, req.RoleDescription,
		strings.Join(req.KeySkills, ", "), req.RequiredExperience,
		strings.Join(req.Certifications, ", "), strings.Join(req.AdditionalRequirements, ", "))

	content, err := callChatCompletion(
		"You are an expert HR professional creating compelling job descriptions. Always respond with valid JSON.",
		prompt, 1000)
	if err != nil {
		c.JSON(http.StatusOK, fallbackJobDescription(req.RoleTitle, req.RoleDescription))
		return
	}

	var desc GeneratedDescription
	if err := json.Unmarshal([]byte(content), &desc); err != nil {
		c.JSON(http.StatusOK, fallbackJobDescription(req.RoleTitle, req.RoleDescription))
		return
	}

	c.JSON(http.StatusOK, desc)
}
