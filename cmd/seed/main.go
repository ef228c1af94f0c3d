package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"linguaclash/internal/config"
	"linguaclash/internal/model"
	"linguaclash/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	curriculumRepo := repository.NewCurriculumRepo(client.Database(cfg.MongoDB))

	modules := []*model.CurriculumModule{
		{
			ID:       "basics-greetings",
			Title:    "Greetings",
			Language: "es",
			Questions: []model.BankQuestion{
				{
					Prompt:      "How do you say 'hello'?",
					Options:     []string{"Hola", "Adiós", "Gracias", "Por favor"},
					AnswerIndex: 0,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt:      "How do you say 'goodbye'?",
					Options:     []string{"Buenos días", "Adiós", "Perdón", "Sí"},
					AnswerIndex: 1,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt:      "'Buenas noches' means…",
					Options:     []string{"Good morning", "Good afternoon", "Good night", "See you later"},
					AnswerIndex: 2,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt: "Write a short greeting for a friend.",
					Type:   model.QuestionTypeFreeText,
				},
			},
		},
		{
			ID:       "basics-numbers",
			Title:    "Numbers",
			Language: "es",
			Questions: []model.BankQuestion{
				{
					Prompt:      "Which number is 'siete'?",
					Options:     []string{"5", "6", "7", "8"},
					AnswerIndex: 2,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt:      "'Quince' is…",
					Options:     []string{"13", "14", "15", "16"},
					AnswerIndex: 2,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt:      "How do you say '100'?",
					Options:     []string{"Mil", "Cien", "Diez", "Veinte"},
					AnswerIndex: 1,
					Type:        model.QuestionTypeMultipleChoice,
				},
			},
		},
		{
			ID:       "basics-food",
			Title:    "Food",
			Language: "es",
			Questions: []model.BankQuestion{
				{
					Prompt:      "'Manzana' means…",
					Options:     []string{"Orange", "Apple", "Bread", "Cheese"},
					AnswerIndex: 1,
					Type:        model.QuestionTypeMultipleChoice,
				},
				{
					Prompt:      "How do you ask for water?",
					Options:     []string{"Agua, por favor", "Leche, por favor", "Café, por favor", "Vino, por favor"},
					AnswerIndex: 0,
					Type:        model.QuestionTypeMultipleChoice,
				},
			},
		},
	}

	for _, m := range modules {
		if err := curriculumRepo.Create(ctx, m); err != nil {
			log.Fatalf("Failed to seed module %s: %v", m.ID, err)
		}
		fmt.Printf("Seeded module %s (%d questions)\n", m.ID, len(m.Questions))
	}

	fmt.Println("Done.")
}
