package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"reach-backend/application/ports"
	apperrors "reach-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CognitoProvider implements ports.IdentityProvider against a Cognito user
// pool. Calls go through a circuit breaker so a struggling pool degrades
// into fast 502s instead of piling up handler goroutines.
type CognitoProvider struct {
	client       *cognitoidentityprovider.Client
	clientID     string
	clientSecret string
	breaker      *gobreaker.CircuitBreaker
	logger       *zap.Logger
}

// NewCognitoProvider creates a new CognitoProvider.
func NewCognitoProvider(client *cognitoidentityprovider.Client, clientID, clientSecret string, logger *zap.Logger) ports.IdentityProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cognito",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Identity provider breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Client-classified failures (bad credentials, duplicate
			// username, bad code) must not trip the breaker.
			return err == nil || apperrors.GetAppError(err) != nil
		},
	})

	return &CognitoProvider{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		breaker:      breaker,
		logger:       logger,
	}
}

// secretHash computes the SECRET_HASH Cognito requires for app clients
// configured with a client secret: Base64(HMAC-SHA256(username+clientId)).
func (p *CognitoProvider) secretHash(username string) *string {
	if p.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (p *CognitoProvider) execute(op func() error) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, op()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.NewExternalError("cognito", err)
	}
	return err
}

// SignUp registers a new account in the user pool.
func (p *CognitoProvider) SignUp(ctx context.Context, in ports.SignUpInput) error {
	return p.execute(func() error {
		_, err := p.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
			ClientId:   aws.String(p.clientID),
			Username:   aws.String(in.Username),
			Password:   aws.String(in.Password),
			SecretHash: p.secretHash(in.Username),
			UserAttributes: []types.AttributeType{
				{Name: aws.String("email"), Value: aws.String(in.Email)},
				{Name: aws.String("given_name"), Value: aws.String(in.FirstName)},
				{Name: aws.String("family_name"), Value: aws.String(in.LastName)},
			},
		})
		if err != nil {
			var exists *types.UsernameExistsException
			if errors.As(err, &exists) {
				return apperrors.NewConflictError("user ID already exists")
			}
			var invalidPassword *types.InvalidPasswordException
			if errors.As(err, &invalidPassword) {
				return apperrors.NewValidationError("password does not meet requirements")
			}
			p.logFailure("SignUp", err)
			return apperrors.NewExternalError("cognito", err)
		}
		return nil
	})
}

// SignIn authenticates with USER_PASSWORD_AUTH and returns the issued
// token set. Every credential-shaped failure collapses into the same 401
// so the response does not leak which part was wrong.
func (p *CognitoProvider) SignIn(ctx context.Context, username, password string) (*ports.AuthTokens, error) {
	var tokens *ports.AuthTokens
	err := p.execute(func() error {
		params := map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		}
		if hash := p.secretHash(username); hash != nil {
			params["SECRET_HASH"] = *hash
		}

		out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
			AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
			ClientId:       aws.String(p.clientID),
			AuthParameters: params,
		})
		if err != nil {
			var notAuthorized *types.NotAuthorizedException
			var notFound *types.UserNotFoundException
			var notConfirmed *types.UserNotConfirmedException
			if errors.As(err, &notAuthorized) || errors.As(err, &notFound) || errors.As(err, &notConfirmed) {
				return apperrors.NewUnauthorizedError("invalid user ID or password")
			}
			p.logFailure("InitiateAuth", err)
			return apperrors.NewExternalError("cognito", err)
		}
		if out.AuthenticationResult == nil {
			// A challenge response (MFA, forced password change) has no
			// tokens; the app client is not configured for challenges.
			return apperrors.NewUnauthorizedError("authentication challenge not supported")
		}

		tokens = &ports.AuthTokens{
			AccessToken:  aws.ToString(out.AuthenticationResult.AccessToken),
			IDToken:      aws.ToString(out.AuthenticationResult.IdToken),
			RefreshToken: aws.ToString(out.AuthenticationResult.RefreshToken),
			ExpiresIn:    out.AuthenticationResult.ExpiresIn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ConfirmSignUp confirms a registration with the emailed code.
func (p *CognitoProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	return p.execute(func() error {
		_, err := p.client.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
			ClientId:         aws.String(p.clientID),
			Username:         aws.String(username),
			ConfirmationCode: aws.String(code),
			SecretHash:       p.secretHash(username),
		})
		if err != nil {
			var mismatch *types.CodeMismatchException
			if errors.As(err, &mismatch) {
				return apperrors.NewValidationError("invalid verification code")
			}
			var expired *types.ExpiredCodeException
			if errors.As(err, &expired) {
				return apperrors.NewValidationError("verification code has expired")
			}
			p.logFailure("ConfirmSignUp", err)
			return apperrors.NewExternalError("cognito", err)
		}
		return nil
	})
}

// SignOut revokes every token issued to the bearer of accessToken.
func (p *CognitoProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.execute(func() error {
		_, err := p.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
			AccessToken: aws.String(accessToken),
		})
		if err != nil {
			var notAuthorized *types.NotAuthorizedException
			if errors.As(err, &notAuthorized) {
				// Token already revoked or expired; signing out again is
				// not an error the caller can act on.
				return nil
			}
			p.logFailure("GlobalSignOut", err)
			return apperrors.NewExternalError("cognito", err)
		}
		return nil
	})
}

// CheckAccessToken validates a bearer token against the pool and returns
// the username (the Reach userId) it was issued to.
func (p *CognitoProvider) CheckAccessToken(ctx context.Context, accessToken string) (string, error) {
	var userID string
	err := p.execute(func() error {
		out, err := p.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
			AccessToken: aws.String(accessToken),
		})
		if err != nil {
			var notAuthorized *types.NotAuthorizedException
			if errors.As(err, &notAuthorized) {
				return apperrors.NewUnauthorizedError("invalid or expired token")
			}
			p.logFailure("GetUser", err)
			return apperrors.NewExternalError("cognito", err)
		}
		userID = aws.ToString(out.Username)
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (p *CognitoProvider) logFailure(operation string, err error) {
	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("errorCode", apiErr.ErrorCode()))
	}
	p.logger.Error("Identity provider call failed", fields...)
}
