package sheets

import "fmt"

// AuthError: falha ao obter token da service account.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to authenticate with Google Sheets: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RelayError: a linha não chegou na planilha depois de todas as tentativas.
// StatusCode é 0 quando a falha foi de rede ou de autenticação.
type RelayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RelayError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to add lead to Google Sheets: Google Sheets API error: %d - %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("failed to add lead to Google Sheets: %v", e.Err)
	default:
		return "failed to add lead to Google Sheets"
	}
}

func (e *RelayError) Unwrap() error {
	return e.Err
}
