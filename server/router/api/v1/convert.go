package v1

import "github.com/magicailabs/magicai/store"

type agentResponse struct {
	UID           string `json:"uid"`
	NameES        string `json:"nameEs"`
	NameEN        string `json:"nameEn"`
	DescriptionES string `json:"descriptionEs"`
	DescriptionEN string `json:"descriptionEn"`
	Provider      string `json:"provider"`
	CanImage      bool   `json:"canGenerateImage"`
	CanVideo      bool   `json:"canGenerateVideo"`
}

func convertAgent(agent *store.Agent) *agentResponse {
	return &agentResponse{
		UID:           agent.UID,
		NameES:        agent.NameES,
		NameEN:        agent.NameEN,
		DescriptionES: agent.DescriptionES,
		DescriptionEN: agent.DescriptionEN,
		Provider:      string(agent.Provider),
		CanImage:      agent.Tools.Image,
		CanVideo:      agent.Tools.Video,
	}
}

func convertAgents(agents []*store.Agent) []*agentResponse {
	converted := make([]*agentResponse, 0, len(agents))
	for _, agent := range agents {
		converted = append(converted, convertAgent(agent))
	}
	return converted
}

type conversationResponse struct {
	UID           string `json:"uid"`
	Title         string `json:"title"`
	MessageCount  int32  `json:"messageCount"`
	LastMessageTs int64  `json:"lastMessageTs"`
	CreatedTs     int64  `json:"createdTs"`
}

func convertConversation(conversation *store.Conversation) *conversationResponse {
	return &conversationResponse{
		UID:           conversation.UID,
		Title:         conversation.Title,
		MessageCount:  conversation.MessageCount,
		LastMessageTs: conversation.LastMessageTs,
		CreatedTs:     conversation.CreatedTs,
	}
}

type mediaInfo struct {
	UID      string `json:"uid"`
	MimeType string `json:"mimeType"`
}

type messageResponse struct {
	UID        string     `json:"uid"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	TokensUsed *int32     `json:"tokensUsed,omitempty"`
	Media      *mediaInfo `json:"media,omitempty"`
	CreatedTs  int64      `json:"createdTs"`
}

func convertMessage(message *store.Message) *messageResponse {
	resp := &messageResponse{
		UID:        message.UID,
		Role:       string(message.Role),
		Content:    message.Content,
		TokensUsed: message.TokensUsed,
		CreatedTs:  message.CreatedTs,
	}
	if message.Media != nil {
		resp.Media = &mediaInfo{UID: message.Media.UID, MimeType: message.Media.MimeType}
	}
	return resp
}

func convertMessages(messages []*store.Message) []*messageResponse {
	converted := make([]*messageResponse, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, convertMessage(message))
	}
	return converted
}

type projectResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

func convertProject(project *store.Project) *projectResponse {
	return &projectResponse{UID: project.UID, Name: project.Name, CreatedTs: project.CreatedTs}
}

type sectionResponse struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Position int32  `json:"position"`
}

func convertSection(section *store.Section) *sectionResponse {
	return &sectionResponse{UID: section.UID, Name: section.Name, Position: section.Position}
}

func convertSections(sections []*store.Section) []*sectionResponse {
	converted := make([]*sectionResponse, 0, len(sections))
	for _, section := range sections {
		converted = append(converted, convertSection(section))
	}
	return converted
}

type cardResponse struct {
	UID                string `json:"uid"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Priority           string `json:"priority"`
	Position           int32  `json:"position"`
	DueTs              int64  `json:"dueTs,omitempty"`
	ReminderEnabled    bool   `json:"reminderEnabled"`
	ReminderDaysBefore int32  `json:"reminderDaysBefore"`
	CreatedTs          int64  `json:"createdTs"`
}

func convertCard(card *store.Card) *cardResponse {
	return &cardResponse{
		UID:                card.UID,
		Title:              card.Title,
		Description:        card.Description,
		Priority:           string(card.Priority),
		Position:           card.Position,
		DueTs:              card.DueTs,
		ReminderEnabled:    card.ReminderEnabled,
		ReminderDaysBefore: card.ReminderDaysBefore,
		CreatedTs:          card.CreatedTs,
	}
}

func convertCards(cards []*store.Card) []*cardResponse {
	converted := make([]*cardResponse, 0, len(cards))
	for _, card := range cards {
		converted = append(converted, convertCard(card))
	}
	return converted
}

type reminderResponse struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TriggerTs   int64  `json:"triggerTs"`
	State       string `json:"state"`
	CreatedTs   int64  `json:"createdTs"`
}

func convertReminder(reminder *store.Reminder) *reminderResponse {
	return &reminderResponse{
		UID:         reminder.UID,
		Title:       reminder.Title,
		Description: reminder.Description,
		TriggerTs:   reminder.TriggerTs,
		State:       string(reminder.State),
		CreatedTs:   reminder.CreatedTs,
	}
}
