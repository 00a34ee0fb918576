package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

type storedMessage struct {
	ID                      string `json:"id"`
	Sender                  string `json:"sender"`
	Recipient               string `json:"recipient"`
	Text                    string `json:"text"`
	At                      int64  `json:"at"`
	IsAnonymous             bool   `json:"isAnonymous"`
	IdentityRevealRequested bool   `json:"identityRevealRequested"`
	IdentityRevealed        bool   `json:"identityRevealed"`
	ReceivingStopped        bool   `json:"receivingStopped"`
}

type storedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsOnline bool   `json:"isOnline"`
}

func main() {
	dbPath := flag.String("db", "/tmp/badger/snappy", "Path to badger DB")
	// Par défaut on cherche "msg:" pour éviter de percuter les index id: et inbox:
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "From", "To", "Detail", "Flags"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Sécurité : on ignore explicitement les index secondaires
			if strings.HasPrefix(rawKey, "id:") || strings.HasPrefix(rawKey, "inbox:") ||
				strings.HasPrefix(rawKey, "username:") || strings.HasPrefix(rawKey, "email:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				switch {
				case strings.HasPrefix(rawKey, "msg:"):
					var m storedMessage
					if err := json.Unmarshal(v, &m); err != nil {
						// Au lieu de stopper tout le script, on log l'erreur et on continue
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					table.Append([]string{
						rawKey,
						messageType(m),
						time.Unix(0, m.At).Format("15:04:05"),
						shorten(m.Sender),
						shorten(m.Recipient),
						m.Text,
						flags(m),
					})
				case strings.HasPrefix(rawKey, "user:"):
					var u storedUser
					if err := json.Unmarshal(v, &u); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					online := "offline"
					if u.IsOnline {
						online = "online"
					}
					table.Append([]string{
						rawKey,
						"USER",
						"",
						shorten(u.ID),
						"",
						u.Username + " <" + u.Email + ">",
						online,
					})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func messageType(m storedMessage) string {
	if m.IsAnonymous {
		return "ANON"
	}
	return "CHAT"
}

func flags(m storedMessage) string {
	var out []string
	if m.IdentityRevealRequested {
		out = append(out, "reveal-requested")
	}
	if m.IdentityRevealed {
		out = append(out, "revealed")
	}
	if m.ReceivingStopped {
		out = append(out, "blocked")
	}
	return strings.Join(out, " ")
}

// On affiche les 8 premiers caractères de l'identifiant pour la lisibilité
func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Si corruption détectée, essaie un open en write pour truncate
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			// Ferme et réouvre en read-only
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
