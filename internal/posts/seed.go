package posts

import "time"

// DefaultCoverImageURL is used when a post is saved without a cover image.
const DefaultCoverImageURL = "https://images.unsplash.com/photo-1555066931-4365d14bab8c?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D"

// DefaultTag is applied when a post is saved without tags.
const DefaultTag = "Uncategorized"

// fence is a markdown code fence, which cannot appear in a raw string.
const fence = "```"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// SeedPosts returns the built-in posts present at every start. They are
// never written to the mirror.
func SeedPosts() []*Post {
	return []*Post{
		{
			ID:            "1",
			Title:         "Getting Started with React and TypeScript",
			Slug:          "getting-started-with-react-and-typescript",
			ContentMD:     seed1,
			CoverImageURL: "https://images.unsplash.com/photo-1555066931-4365d14bab8c?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D",
			Tags:          []string{"React", "TypeScript", "Frontend"},
			CreatedAt:     day(2023, time.June, 15),
			UpdatedAt:     day(2023, time.June, 15),
			User: Author{
				ID:          "101",
				DisplayName: "Dev Expert",
				Email:       "dev@example.com",
				AvatarURL:   "https://ui-avatars.com/api/?name=Dev+Expert&background=random",
			},
		},
		{
			ID:            "2",
			Title:         "Advanced CSS Grid Techniques",
			Slug:          "advanced-css-grid-techniques",
			ContentMD:     seed2,
			CoverImageURL: "https://images.unsplash.com/photo-1507721999472-8ed4421c4af2?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D",
			Tags:          []string{"CSS", "Web Design", "Frontend"},
			CreatedAt:     day(2023, time.July, 22),
			UpdatedAt:     day(2023, time.July, 23),
			User: Author{
				ID:          "102",
				DisplayName: "CSS Wizard",
				Email:       "css@example.com",
				AvatarURL:   "https://ui-avatars.com/api/?name=CSS+Wizard&background=random",
			},
		},
		{
			ID:            "3",
			Title:         "Optimizing React Performance",
			Slug:          "optimizing-react-performance",
			ContentMD:     seed3,
			CoverImageURL: "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D",
			Tags:          []string{"React", "Performance", "JavaScript"},
			CreatedAt:     day(2023, time.August, 5),
			UpdatedAt:     day(2023, time.August, 6),
			User: Author{
				ID:          "103",
				DisplayName: "Performance Guru",
				Email:       "perf@example.com",
				AvatarURL:   "https://ui-avatars.com/api/?name=Performance+Guru&background=random",
			},
		},
	}
}

const seed1 = `# Getting Started with React and TypeScript

TypeScript has become increasingly popular in the React ecosystem. In this post, we'll explore how to set up a new React project with TypeScript.

## Setting Up Your Environment

First, make sure you have Node.js installed. Then, you can create a new React TypeScript project using create-react-app:

` + fence + `bash
npx create-react-app my-app --template typescript
` + fence + `

This will generate a new React project with TypeScript already configured.

## Type Safety in Components

One of the biggest advantages of using TypeScript with React is the ability to type your component props and state:

` + fence + `typescript
interface ButtonProps {
  text: string;
  onClick: () => void;
  disabled?: boolean;
}

const Button: React.FC<ButtonProps> = ({ text, onClick, disabled = false }) => {
  return (
    <button onClick={onClick} disabled={disabled}>
      {text}
    </button>
  );
};
` + fence + `

## Conclusion

TypeScript might seem like an overhead at first, but it greatly improves code quality and developer experience.
`

const seed2 = `# Advanced CSS Grid Techniques

CSS Grid has revolutionized web layout. In this post, we'll dive into some advanced techniques.

## Grid Template Areas

One of the most powerful features of CSS Grid is grid-template-areas:

` + fence + `css
.container {
  display: grid;
  grid-template-areas:
    "header header header"
    "sidebar content content"
    "footer footer footer";
}

.header { grid-area: header; }
.sidebar { grid-area: sidebar; }
.content { grid-area: content; }
.footer { grid-area: footer; }
` + fence + `

## Responsive Layouts Without Media Queries

Using CSS Grid, we can create responsive layouts without media queries:

` + fence + `css
.container {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
  gap: 1rem;
}
` + fence + `

This will automatically adjust the number of columns based on the available space.

## Conclusion

CSS Grid offers incredible flexibility for creating complex layouts.
`

const seed3 = `# Optimizing React Performance

Performance optimization is crucial for React applications. Let's explore some techniques.

## Memoization with React.memo

To prevent unnecessary renders of functional components:

` + fence + `jsx
const MyComponent = React.memo(function MyComponent(props) {
  /* rendering logic */
});
` + fence + `

## Using useCallback for Event Handlers

` + fence + `jsx
const handleClick = useCallback(() => {
  // handle click event
}, [dependency]);
` + fence + `

## Virtualized Lists

For large lists, consider using virtualization:

` + fence + `jsx
import { FixedSizeList } from 'react-window';

const MyList = ({ items }) => (
  <FixedSizeList
    height={500}
    width={500}
    itemSize={50}
    itemCount={items.length}
  >
    {({ index, style }) => (
      <div style={style}>
        {items[index]}
      </div>
    )}
  </FixedSizeList>
);
` + fence + `

## Conclusion

These techniques can significantly improve the performance of your React applications.
`
