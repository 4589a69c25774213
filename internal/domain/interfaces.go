package domain

// Scaler normalizes a feature vector with statistics fixed at training time.
// Implementations must return a new vector and leave the argument untouched.
type Scaler interface {
	Transform(v FeatureVector) (FeatureVector, error)
}

// Classifier maps a normalized feature vector to a class index.
type Classifier interface {
	Predict(v FeatureVector) (int, error)
}
