package solana

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	phantomConnectURL = "https://phantom.app/ul/v1/connect"
	phantomBrowseURL  = "https://phantom.app/ul/browse/"
)

// Query parameters Phantom appends to the redirect link.
const (
	ParamPhantomPublicKey = "phantom_encryption_public_key"
	ParamNonce            = "nonce"
	ParamData             = "data"
	ParamErrorCode        = "errorCode"
	ParamErrorMessage     = "errorMessage"
)

var validClusters = map[string]bool{
	"mainnet-beta": true,
	"testnet":      true,
	"devnet":       true,
}

// IsValidCluster reports whether Phantom accepts cluster in a connect link.
func IsValidCluster(cluster string) bool {
	return validClusters[cluster]
}

// ConnectParams are the inputs of a Phantom connect deep link.
type ConnectParams struct {
	AppURL        string // origin of the dapp, shown by Phantom
	DappPublicKey string // base58 box public key
	RedirectLink  string // where Phantom sends the encrypted answer
	Cluster       string
}

// ConnectURL builds the deep link that asks Phantom to connect and redirect back.
func ConnectURL(p ConnectParams) (string, error) {
	if p.DappPublicKey == "" {
		return "", errors.New("dapp encryption public key is required")
	}
	for name, raw := range map[string]string{"app_url": p.AppURL, "redirect_link": p.RedirectLink} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("%s must be an absolute URL", name)
		}
	}
	if !IsValidCluster(p.Cluster) {
		return "", fmt.Errorf("unknown cluster %q", p.Cluster)
	}

	q := url.Values{}
	q.Set("app_url", p.AppURL)
	q.Set("dapp_encryption_public_key", p.DappPublicKey)
	q.Set("redirect_link", p.RedirectLink)
	q.Set("cluster", p.Cluster)
	return phantomConnectURL + "?" + q.Encode(), nil
}

// BrowseURL opens target inside Phantom's in-app browser.
func BrowseURL(target, ref string) string {
	u := phantomBrowseURL + url.PathEscape(target)
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return u
}
