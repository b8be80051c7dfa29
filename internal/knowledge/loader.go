package knowledge

import (
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var embedded embed.FS

// Document kinds, selected by file suffix.
const (
	kindTopics     = ".topics.yaml"
	kindVideos     = ".videos.yaml"
	kindQuiz       = ".quiz.yaml"
	kindFlashcards = ".flashcards.yaml"
)

type topicsDoc struct {
	Topics []Topic `yaml:"topics"`
}

type videosDoc struct {
	Videos []Video `yaml:"videos"`
}

type quizDoc struct {
	Questions []QuizQuestion `yaml:"questions"`
}

type flashcardsDoc struct {
	Flashcards []Flashcard `yaml:"flashcards"`
}

// Default loads the content compiled into the binary.
func Default() (*Store, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, fmt.Errorf("opening embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads content from a directory on disk.
func LoadDir(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load walks fsys and builds a Store from every content document found.
// Files are read in lexical path order, which fixes the iteration order of
// the resulting store. Files without a recognised suffix are ignored.
func Load(fsys fs.FS) (*Store, error) {
	var content Content
	digest, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}

	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		kind := documentKind(path)
		if kind == "" {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := decodeDocument(kind, data, &content); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		digest.Write([]byte(path))
		digest.Write(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	s, err := NewStore(content)
	if err != nil {
		return nil, fmt.Errorf("validating content: %w", err)
	}
	s.version = hex.EncodeToString(digest.Sum(nil))[:16]

	st := s.Stats()
	slog.Info("knowledge loaded",
		"topics", st.Topics,
		"videos", st.Videos,
		"quiz_questions", st.Quiz,
		"flashcards", st.Flashcards,
		"version", s.version,
	)
	return s, nil
}

func documentKind(path string) string {
	for _, kind := range []string{kindTopics, kindVideos, kindQuiz, kindFlashcards} {
		if strings.HasSuffix(path, kind) {
			return kind
		}
	}
	return ""
}

func decodeDocument(kind string, data []byte, content *Content) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if raw == nil {
		return nil // empty file
	}
	if err := validateDocument(kind, raw); err != nil {
		return err
	}

	switch kind {
	case kindTopics:
		var doc topicsDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		content.Topics = append(content.Topics, doc.Topics...)
	case kindVideos:
		var doc videosDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		content.Videos = append(content.Videos, doc.Videos...)
	case kindQuiz:
		var doc quizDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		content.Quiz = append(content.Quiz, doc.Questions...)
	case kindFlashcards:
		var doc flashcardsDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		content.Flashcards = append(content.Flashcards, doc.Flashcards...)
	}
	return nil
}
