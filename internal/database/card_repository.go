package database

import (
	"fmt"

	"github.com/example/vocabengine/pkg/models"
)

// CardRepository handles database operations for flashcards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// GetByID returns a single card
func (r *CardRepository) GetByID(id int64) (*models.Flashcard, error) {
	var card models.Flashcard
	err := DB.Get(&card, "SELECT * FROM cards WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %v", err)
	}
	return &card, nil
}

// GetAll returns all cards
func (r *CardRepository) GetAll() ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.Select(&cards, "SELECT * FROM cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %v", err)
	}
	return cards, nil
}

// GetByCategory returns all cards in a category
func (r *CardRepository) GetByCategory(category string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.Select(&cards, "SELECT * FROM cards WHERE category = $1 ORDER BY id", category)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards by category: %v", err)
	}
	return cards, nil
}

// GetByTermAndCategory returns a card matching term and category
func (r *CardRepository) GetByTermAndCategory(term, category string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := DB.Get(&card, "SELECT * FROM cards WHERE term = $1 AND category = $2", term, category)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Create inserts a new card. Postgres has no LastInsertId, so the new id
// comes back via RETURNING there.
func (r *CardRepository) Create(card *models.Flashcard) error {
	if dbType() == "postgres" {
		err := DB.QueryRow(`
			INSERT INTO cards (term, translation, category, example, pronunciation, difficulty)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			card.Term, card.Translation, card.Category, card.Example, card.Pronunciation, card.Difficulty,
		).Scan(&card.ID)
		if err != nil {
			return fmt.Errorf("failed to create card: %v", err)
		}
		return nil
	}

	result, err := DB.Exec(`
		INSERT INTO cards (term, translation, category, example, pronunciation, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		card.Term, card.Translation, card.Category, card.Example, card.Pronunciation, card.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %v", err)
	}
	id, err := result.LastInsertId()
	if err == nil {
		card.ID = id
	}
	return nil
}

// Update modifies an existing card
func (r *CardRepository) Update(card *models.Flashcard) error {
	_, err := DB.Exec(`
		UPDATE cards SET
			term = $1,
			translation = $2,
			category = $3,
			example = $4,
			pronunciation = $5,
			difficulty = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		card.Term, card.Translation, card.Category, card.Example, card.Pronunciation, card.Difficulty, card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %v", err)
	}
	return nil
}

// CountUnseen returns the number of cards with no progress record yet
func (r *CardRepository) CountUnseen() (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM cards c
		WHERE NOT EXISTS (
			SELECT 1 FROM card_progress p WHERE p.card_id = c.id
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to count unseen cards: %v", err)
	}
	return count, nil
}

// GetUnseen returns cards that have never been studied, up to limit
func (r *CardRepository) GetUnseen(limit int) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.Select(&cards, `
		SELECT * FROM cards c
		WHERE NOT EXISTS (
			SELECT 1 FROM card_progress p WHERE p.card_id = c.id
		)
		ORDER BY c.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unseen cards: %v", err)
	}
	return cards, nil
}
